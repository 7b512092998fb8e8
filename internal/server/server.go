// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - MongoDB client and collections
//   - optional redis client
//   - optional background job worker (asynq)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/config"
	"github.com/bookwarm/bookwarm-api/internal/database"
	"github.com/bookwarm/bookwarm-api/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/bookwarm/bookwarm-api/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. Redis and Job are nil when their config
// blocks are absent.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService
	DB            *database.Database
	Redis         *redis.Client
	Job           *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// Initialization performed:
//   - MongoDB client (connect + ping) and the unique email index
//   - Redis client + optional New Relic hook, when configured
//   - JobService (asynq client/server), when redis and an email provider are configured
//
// A database or index failure aborts startup. An unreachable redis is only
// logged: the API works without it, welcome emails are retried by asynq
// once it comes back.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), database.DatabasePingTimeout*time.Second)
	defer cancel()

	if err := database.EnsureIndexes(ctx, logger, db.Users); err != nil {
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	if cfg.Redis != nil {
		server.Redis = newRedisClient(ctx, cfg.Redis, logger, loggerService)
	}

	if cfg.JobsEnabled() {
		jobService := job.NewJobService(logger, cfg)
		if err := jobService.Start(); err != nil {
			_ = server.closeClients(context.Background())
			return nil, err
		}
		server.Job = jobService
	} else {
		logger.Info().Msg("redis or email integration not configured, background jobs disabled")
	}

	return server, nil
}

func newRedisClient(ctx context.Context, cfg *config.RedisConfig, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Address,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	return client
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server and blocks until it stops.
// It returns http.ErrServerClosed after a graceful Shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies.
//
// In-flight requests are drained first, then the job worker, the database
// and redis are closed. The New Relic agent is flushed last.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	err := s.closeClients(ctx)

	if s.LoggerService != nil {
		s.LoggerService.Shutdown()
	}

	return err
}

func (s *Server) closeClients(ctx context.Context) error {
	var errs []error

	if s.DB != nil {
		if err := s.DB.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	return errors.Join(errs...)
}
