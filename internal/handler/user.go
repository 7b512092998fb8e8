package handler

import (
	"github.com/bookwarm/bookwarm-api/internal/errs"
	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/bookwarm/bookwarm-api/internal/server"
	"github.com/bookwarm/bookwarm-api/internal/service"
	"github.com/bookwarm/bookwarm-api/internal/validation"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// CreateUserRequest is any JSON object with a non-empty string email.
type CreateUserRequest struct {
	documentBody
}

func (r *CreateUserRequest) Validate() error {
	if err := validation.RequirePresent(r.Document, "Email required", model.FieldEmail); err != nil {
		return err
	}
	if _, ok := r.Document[model.FieldEmail].(string); !ok {
		return &validation.RequiredFieldsError{
			Message: "Email required",
			Fields:  validation.CustomValidationErrors{{Field: model.FieldEmail, Message: "must be a string"}},
		}
	}
	return nil
}

type RoleRequest struct {
	Email string `param:"email" json:"-"`
}

func (r *RoleRequest) Validate() error {
	return validation.RequirePresent(bson.M{model.FieldEmail: r.Email}, "Email is required", model.FieldEmail)
}

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) CreateUser(c echo.Context, req *CreateUserRequest) (*model.RegisterUserResponse, error) {
	return h.users.Register(c.Request().Context(), req.Document)
}

func (h *UserHandler) GetRole(c echo.Context, req *RoleRequest) (*model.RoleResponse, error) {
	email, err := unescapeParam(c, req.Email)
	if err != nil {
		return nil, errs.NewBadRequestError("Email is required", true, nil,
			[]errs.FieldError{{Field: model.FieldEmail, Error: "must be a valid URL-encoded value"}}, nil)
	}
	return h.users.Role(c.Request().Context(), email)
}
