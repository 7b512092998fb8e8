// Package database contains the logic for establishing
// the connection to the MongoDB deployment.
//
// It handles:
//   - building the connection string from config
//   - creating a single long-lived mongo.Client (the driver pools internally)
//   - wiring command monitoring (slow command logs, New Relic datastore segments)
//   - exposing the two collections the API works with
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/config"
	loggerConfig "github.com/bookwarm/bookwarm-api/internal/logger"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Database wraps the mongo client and the collections handed to repositories.
//
// It is created once in server.New and closed in Server.Shutdown; nothing
// else opens connections.
type Database struct {
	Client *mongo.Client
	Users  *mongo.Collection
	Books  *mongo.Collection
	log    *zerolog.Logger
}

// DatabasePingTimeout is the number of seconds to wait for the initial
// connect + ping before considering the deployment unreachable.
const DatabasePingTimeout = 10

// New connects to MongoDB with instrumentation.
//
// Behavior:
//   - Apply the Stable API v1 in strict mode (same as the original deployment)
//   - Attach the New Relic monitor if the agent is running
//   - Attach the zerolog monitor (verbose only in the local env)
//   - Connect, ping the primary and return Database
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	clientOpts := options.Client().
		ApplyURI(cfg.Database.ConnectionURI()).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(cfg.Database.ConnectTimeout).
		SetAppName(cfg.Database.AppName)

	mongoLogger := loggerConfig.NewMongoLogger(logger)
	monitors := []*event.CommandMonitor{
		newLogMonitor(mongoLogger, cfg.Observability.Logging.SlowQueryThreshold, cfg.Primary.Env == "local"),
	}
	// New Relic first so its segment covers the time spent in later monitors.
	if loggerService != nil && loggerService.GetApplication() != nil {
		monitors = append([]*event.CommandMonitor{newRelicMonitor()}, monitors...)
	}
	clientOpts.SetMonitor(chainMonitors(monitors...))

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	// mongo.Connect is lazy; the ping makes startup fail fast if the
	// deployment is down or the credentials are wrong.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("database", cfg.Database.Name).
		Msg("connected to the database")

	return NewFromClient(client, cfg.Database, logger), nil
}

// NewFromClient wraps an existing client. Used by New and by tests that run
// against a mock deployment.
func NewFromClient(client *mongo.Client, cfg config.DatabaseConfig, logger *zerolog.Logger) *Database {
	db := client.Database(cfg.Name)
	return &Database{
		Client: client,
		Users:  db.Collection(cfg.UserCollection),
		Books:  db.Collection(cfg.BookCollection),
		log:    logger,
	}
}

// Ping checks that the primary is reachable.
func (db *Database) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client, waiting for in-use connections up to ctx.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Msg("closing database connection")
	return db.Client.Disconnect(ctx)
}
