// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - tasks are enqueued (producer) through asynq.Client
//   - a worker server (consumer) pulls and runs them through asynq.Server
package job

import (
	"context"
	"fmt"

	"github.com/bookwarm/bookwarm-api/internal/config"
	"github.com/bookwarm/bookwarm-api/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// welcomeSender is what the task handlers need from the email client.
type welcomeSender interface {
	SendWelcomeEmail(to, name string) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	emails welcomeSender
	logger *zerolog.Logger
}

// NewJobService creates a JobService that uses cfg.Redis as its backend and
// sends emails through cfg.Integration. Both blocks must be set
// (see config.Config.JobsEnabled).
//
// Queue weights give "critical" tasks the largest share of the 10 workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			Logger:   newAsynqLogger(logger),
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client: asynq.NewClient(redisOpt),
		server: server,
		emails: email.NewClient(cfg.Integration, logger),
		logger: logger,
	}
}

// Mux routes task types to their handlers.
func (j *JobService) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcome, j.handleWelcomeEmailTask)
	return mux
}

// Start launches the worker goroutines and returns immediately.
func (j *JobService) Start() error {
	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(j.Mux()); err != nil {
		return fmt.Errorf("failed to start job server: %w", err)
	}

	return nil
}

// EnqueueWelcomeEmail schedules the welcome email for a new user.
func (j *JobService) EnqueueWelcomeEmail(ctx context.Context, to, name string) error {
	task, err := NewWelcomeEmailTask(to, name)
	if err != nil {
		return err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", TaskWelcome, err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("welcome email enqueued")

	return nil
}

// Stop waits for running tasks to finish and closes the enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("failed to close job client")
	}
}
