// Package repository handles all interactions with the database.
//
// It wraps the mongo collections behind small typed methods so the service
// layer never builds filters or update documents itself. Every call runs
// under the configured per-operation timeout and returns driver errors
// classified by mongoerr.
package repository

import (
	"context"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users *UserRepository
	Books *BookRepository
}

// NewRepositories builds the repositories on top of the server's database handle.
func NewRepositories(s *server.Server) *Repositories {
	timeout := s.Config.Database.OperationTimeout
	return &Repositories{
		Users: NewUserRepository(s.DB.Users, timeout),
		Books: NewBookRepository(s.DB.Books, timeout),
	}
}

// withTimeout bounds a single database operation. A zero timeout leaves ctx as is.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
