package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/bookwarm/bookwarm-api/internal/mongoerr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testTimeout = 5 * time.Second

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		res, err := repo.Insert(context.Background(), bson.M{"email": "reader@example.com", "name": "Reader"})
		if err != nil {
			mt.Fatalf("Insert() error = %v", err)
		}
		if !res.Acknowledged {
			mt.Error("Acknowledged = false")
		}
		if _, ok := res.InsertedID.(primitive.ObjectID); !ok {
			mt.Errorf("InsertedID = %T, want primitive.ObjectID", res.InsertedID)
		}
	})

	mt.Run("insert duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.user index: email_unique dup key: { email: "reader@example.com" }`,
		}))

		_, err := repo.Insert(context.Background(), bson.M{"email": "reader@example.com"})
		if mongoerr.ErrCode(err) != mongoerr.DuplicateKey {
			mt.Fatalf("Insert() error = %v, want duplicate key", err)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.user", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "reader@example.com"},
			{Key: "role", Value: "admin"},
		}))

		user, err := repo.FindByEmail(context.Background(), "reader@example.com")
		if err != nil {
			mt.Fatalf("FindByEmail() error = %v", err)
		}
		if model.RoleOf(user) != "admin" {
			mt.Errorf("role = %q, want admin", model.RoleOf(user))
		}
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.user", mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
		if mongoerr.ErrCode(err) != mongoerr.NoDocuments {
			mt.Fatalf("FindByEmail() error = %v, want no documents", err)
		}
	})
}

func TestBookRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		res, err := repo.Insert(context.Background(), bson.M{"name": "Dune", "image": "u.png", "pages": int32(412)})
		if err != nil {
			mt.Fatalf("Insert() error = %v", err)
		}
		if res.InsertedID == nil {
			mt.Error("InsertedID = nil")
		}
	})

	mt.Run("find all", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.book", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Dune"}, {Key: "pages", Value: int32(412)}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Emma"}, {Key: "pages", Value: int32(320)}},
		))

		books, err := repo.FindAll(context.Background())
		if err != nil {
			mt.Fatalf("FindAll() error = %v", err)
		}
		if len(books) != 2 {
			mt.Fatalf("len(books) = %d, want 2", len(books))
		}
		if model.NameOf(books[0]) != "Dune" || model.NameOf(books[1]) != "Emma" {
			mt.Errorf("books = %v, want Dune then Emma", books)
		}
	})

	mt.Run("find all empty", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.book", mtest.FirstBatch))

		books, err := repo.FindAll(context.Background())
		if err != nil {
			mt.Fatalf("FindAll() error = %v", err)
		}
		if books == nil || len(books) != 0 {
			mt.Errorf("books = %#v, want empty non-nil slice", books)
		}
	})

	mt.Run("update modifies", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		id := primitive.NewObjectID()
		modified, err := repo.UpdateByID(context.Background(), id, bson.M{"_id": id.Hex(), "name": "Dune", "pages": int32(500)})
		if err != nil {
			mt.Fatalf("UpdateByID() error = %v", err)
		}
		if modified != 1 {
			mt.Errorf("modified = %d, want 1", modified)
		}
	})

	mt.Run("update unknown id", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		modified, err := repo.UpdateByID(context.Background(), primitive.NewObjectID(), bson.M{"name": "Dune", "pages": int32(500)})
		if err != nil {
			mt.Fatalf("UpdateByID() error = %v", err)
		}
		if modified != 0 {
			mt.Errorf("modified = %d, want 0", modified)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		deleted, err := repo.DeleteByID(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("DeleteByID() error = %v", err)
		}
		if deleted != 1 {
			mt.Errorf("deleted = %d, want 1", deleted)
		}
	})

	mt.Run("delete unknown id", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		deleted, err := repo.DeleteByID(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("DeleteByID() error = %v", err)
		}
		if deleted != 0 {
			mt.Errorf("deleted = %d, want 0", deleted)
		}
	})

	mt.Run("command error", func(mt *mtest.T) {
		repo := NewBookRepository(mt.Coll, testTimeout)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		if _, err := repo.FindAll(context.Background()); mongoerr.ErrCode(err) != mongoerr.Other {
			mt.Fatalf("FindAll() error = %v, want other", err)
		}
	})
}

func TestUpdateSet(t *testing.T) {
	id := primitive.NewObjectID()
	fields := bson.M{"_id": id, "name": "Dune", "pages": int32(500)}

	set := updateSet(fields)

	if _, ok := set["_id"]; ok {
		t.Error("update set contains _id")
	}
	if set["name"] != "Dune" || set["pages"] != int32(500) {
		t.Errorf("update set = %v, want name and pages", set)
	}
	if _, ok := fields["_id"]; !ok {
		t.Error("updateSet modified its input")
	}
}
