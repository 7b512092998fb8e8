package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserEmailIndex is the unique index that makes user registration an atomic
// insert-if-absent: a second insert with the same email fails with a
// duplicate key error instead of creating a twin document.
const UserEmailIndex = "email_unique"

// EnsureIndexes creates the indexes the API relies on.
//
// createIndexes is idempotent when the definition is unchanged, so this runs
// on every startup. It fails if the user collection already holds duplicate
// emails; those must be cleaned up before the service can start.
func EnsureIndexes(ctx context.Context, logger *zerolog.Logger, users *mongo.Collection) error {
	name, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(UserEmailIndex).SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating index %s on %s: %w", UserEmailIndex, users.Name(), err)
	}

	logger.Info().
		Str("collection", users.Name()).
		Str("index", name).
		Msg("database indexes up to date")

	return nil
}
