package repository

import (
	"context"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/bookwarm/bookwarm-api/internal/mongoerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewBookRepository(coll *mongo.Collection, timeout time.Duration) *BookRepository {
	return &BookRepository{coll: coll, timeout: timeout}
}

func (r *BookRepository) Insert(ctx context.Context, doc bson.M) (*model.InsertResult, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, mongoerr.Wrap(err, r.coll.Name())
	}

	return &model.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

// FindAll returns every book in natural order. An empty collection yields an
// empty, non-nil slice so it serializes as [].
func (r *BookRepository) FindAll(ctx context.Context) ([]bson.M, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, mongoerr.Wrap(err, r.coll.Name())
	}

	books := []bson.M{}
	if err := cursor.All(ctx, &books); err != nil {
		return nil, mongoerr.Wrap(err, r.coll.Name())
	}

	return books, nil
}

// UpdateByID merges fields into the book with the given id using $set.
// The _id field is never part of the update. It returns the number of
// documents actually modified, which is 0 both for an unknown id and for an
// update that changes nothing.
func (r *BookRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{model.FieldID: id}, bson.M{"$set": updateSet(fields)})
	if err != nil {
		return 0, mongoerr.Wrap(err, r.coll.Name())
	}

	return res.ModifiedCount, nil
}

// DeleteByID removes the book with the given id and reports how many
// documents were deleted (0 or 1).
func (r *BookRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{model.FieldID: id})
	if err != nil {
		return 0, mongoerr.Wrap(err, r.coll.Name())
	}

	return res.DeletedCount, nil
}

// updateSet copies fields without _id, which is immutable.
func updateSet(fields bson.M) bson.M {
	set := make(bson.M, len(fields))
	for k, v := range fields {
		if k == model.FieldID {
			continue
		}
		set[k] = v
	}
	return set
}
