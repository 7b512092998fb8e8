// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/bookwarm/bookwarm-api/internal/lib/job"
	"github.com/bookwarm/bookwarm-api/internal/repository"
	"github.com/bookwarm/bookwarm-api/internal/server"
)

type Services struct {
	Users *UserService
	Books *BookService
	Job   *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var jobs welcomeEnqueuer
	if s.Job != nil {
		jobs = s.Job
	}

	return &Services{
		Users: NewUserService(repos.Users, jobs),
		Books: NewBookService(repos.Books),
		Job:   s.Job,
	}, nil
}
