package repository

import (
	"context"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/bookwarm/bookwarm-api/internal/mongoerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(coll *mongo.Collection, timeout time.Duration) *UserRepository {
	return &UserRepository{coll: coll, timeout: timeout}
}

// Insert stores doc as a new user. A second insert with an already
// registered email fails with a mongoerr.DuplicateKey error.
func (r *UserRepository) Insert(ctx context.Context, doc bson.M) (*model.InsertResult, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, mongoerr.Wrap(err, r.coll.Name())
	}

	return &model.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

// FindByEmail returns the user stored under email, or a mongoerr.NoDocuments
// error when there is none.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (bson.M, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var user bson.M
	err := r.coll.FindOne(ctx, bson.M{model.FieldEmail: email}).Decode(&user)
	if err != nil {
		return nil, mongoerr.Wrap(err, r.coll.Name())
	}

	return user, nil
}
