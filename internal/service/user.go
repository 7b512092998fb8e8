package service

import (
	"context"

	"github.com/bookwarm/bookwarm-api/internal/database"
	"github.com/bookwarm/bookwarm-api/internal/errs"
	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/bookwarm/bookwarm-api/internal/mongoerr"
	"github.com/bookwarm/bookwarm-api/internal/repository"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
)

// welcomeEnqueuer schedules the welcome email for a new user.
type welcomeEnqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, to, name string) error
}

type UserService struct {
	users *repository.UserRepository
	jobs  welcomeEnqueuer
}

// NewUserService builds the service. jobs may be nil, in which case no
// welcome email is sent.
func NewUserService(users *repository.UserRepository, jobs welcomeEnqueuer) *UserService {
	return &UserService{users: users, jobs: jobs}
}

// Register stores doc as a new user, or returns the user already registered
// under the same email.
//
// The unique email index makes the insert the existence check, so two
// concurrent registrations of one email cannot both create a document.
func (s *UserService) Register(ctx context.Context, doc bson.M) (*model.RegisterUserResponse, error) {
	email := model.EmailOf(doc)

	result, err := s.users.Insert(ctx, doc)
	if err != nil {
		if mongoerr.ErrCode(err) != mongoerr.DuplicateKey {
			return nil, err
		}
		if !emailConflict(err) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("user insert conflicts on a key other than email")
			return nil, errs.NewInternalServerError()
		}

		existing, findErr := s.users.FindByEmail(ctx, email)
		if findErr != nil {
			if mongoerr.ErrCode(findErr) == mongoerr.NoDocuments {
				zerolog.Ctx(ctx).Error().Err(err).Msg("duplicate key on user insert but no user stored under the email")
				return nil, errs.NewInternalServerError()
			}
			return nil, findErr
		}

		return &model.RegisterUserResponse{
			Success: true,
			Message: "User already exists",
			User:    existing,
		}, nil
	}

	if s.jobs != nil {
		if err := s.jobs.EnqueueWelcomeEmail(ctx, email, model.NameOf(doc)); err != nil {
			// The user is stored; a missing welcome email is not worth failing the request.
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to enqueue welcome email")
		}
	}

	return &model.RegisterUserResponse{
		Success: true,
		Message: "User saved to MongoDB",
		Result:  result,
	}, nil
}

// Role returns the role of the user registered under email, defaulting to
// model.DefaultRole. An unknown email is a 404.
func (s *UserService) Role(ctx context.Context, email string) (*model.RoleResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if mongoerr.ErrCode(err) == mongoerr.NoDocuments {
			return nil, errs.NewNotFoundError("User not found", true, nil)
		}
		return nil, err
	}

	return &model.RoleResponse{
		Success: true,
		Email:   model.EmailOf(user),
		Role:    model.RoleOf(user),
	}, nil
}

// emailConflict reports whether a duplicate key error comes from the unique
// email index. An unparsed index name is treated as one; the email lookup
// that follows settles it.
func emailConflict(err error) bool {
	index := mongoerr.Convert(err).Index
	return index == "" || index == database.UserEmailIndex
}
