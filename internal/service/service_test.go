package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bookwarm/bookwarm-api/internal/errs"
	"github.com/bookwarm/bookwarm-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const testTimeout = 5 * time.Second

type fakeJobs struct {
	to, name string
	calls    int
	err      error
}

func (f *fakeJobs) EnqueueWelcomeEmail(_ context.Context, to, name string) error {
	f.calls++
	f.to, f.name = to, name
	return f.err
}

func duplicateEmailResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: `E11000 duplicate key error collection: test.user index: email_unique dup key: { email: "reader@example.com" }`,
	})
}

func TestUserService_Register(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("new user", func(mt *mtest.T) {
		jobs := &fakeJobs{}
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), jobs)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		res, err := svc.Register(context.Background(), bson.M{"email": "reader@example.com", "name": "Ayu"})
		if err != nil {
			mt.Fatalf("Register() error = %v", err)
		}
		if !res.Success || res.Message != "User saved to MongoDB" {
			mt.Errorf("response = %+v", res)
		}
		if res.Result == nil || !res.Result.Acknowledged {
			mt.Errorf("Result = %+v, want acknowledged insert", res.Result)
		}
		if jobs.calls != 1 || jobs.to != "reader@example.com" || jobs.name != "Ayu" {
			mt.Errorf("welcome email enqueued %d times to %q/%q", jobs.calls, jobs.to, jobs.name)
		}
	})

	mt.Run("already registered", func(mt *mtest.T) {
		jobs := &fakeJobs{}
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), jobs)
		mt.AddMockResponses(
			duplicateEmailResponse(),
			mtest.CreateCursorResponse(0, "test.user", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "email", Value: "reader@example.com"},
				{Key: "name", Value: "First"},
			}),
		)

		res, err := svc.Register(context.Background(), bson.M{"email": "reader@example.com", "name": "Second"})
		if err != nil {
			mt.Fatalf("Register() error = %v", err)
		}
		if !res.Success || res.Message != "User already exists" {
			mt.Errorf("response = %+v", res)
		}
		if res.User["name"] != "First" {
			mt.Errorf("User = %v, want the stored document", res.User)
		}
		if jobs.calls != 0 {
			mt.Errorf("welcome email enqueued for an existing user")
		}
	})

	mt.Run("conflict on another unique key", func(mt *mtest.T) {
		jobs := &fakeJobs{}
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), jobs)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.user index: _id_ dup key: { _id: "x" }`,
		}))

		_, err := svc.Register(context.Background(), bson.M{"_id": "x", "email": "new@example.com"})
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusInternalServerError {
			mt.Fatalf("Register() error = %v, want 500", err)
		}
		if jobs.calls != 0 {
			mt.Errorf("welcome email enqueued for a failed registration")
		}
	})

	mt.Run("email conflict without a stored user", func(mt *mtest.T) {
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), nil)
		mt.AddMockResponses(
			duplicateEmailResponse(),
			mtest.CreateCursorResponse(0, "test.user", mtest.FirstBatch),
		)

		_, err := svc.Register(context.Background(), bson.M{"email": "reader@example.com"})
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusInternalServerError {
			mt.Fatalf("Register() error = %v, want 500", err)
		}
	})

	mt.Run("enqueue failure does not fail registration", func(mt *mtest.T) {
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), &fakeJobs{err: errors.New("redis down")})
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if _, err := svc.Register(context.Background(), bson.M{"email": "reader@example.com"}); err != nil {
			mt.Fatalf("Register() error = %v", err)
		}
	})

	mt.Run("without jobs", func(mt *mtest.T) {
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if _, err := svc.Register(context.Background(), bson.M{"email": "reader@example.com"}); err != nil {
			mt.Fatalf("Register() error = %v", err)
		}
	})

	mt.Run("storage error", func(mt *mtest.T) {
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), nil)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad value"}))

		if _, err := svc.Register(context.Background(), bson.M{"email": "reader@example.com"}); err == nil {
			mt.Fatal("Register() error = nil, want storage error")
		}
	})
}

func TestUserService_Role(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stored role", func(mt *mtest.T) {
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.user", mtest.FirstBatch, bson.D{
			{Key: "email", Value: "admin@example.com"},
			{Key: "role", Value: "admin"},
		}))

		res, err := svc.Role(context.Background(), "admin@example.com")
		if err != nil {
			mt.Fatalf("Role() error = %v", err)
		}
		if !res.Success || res.Email != "admin@example.com" || res.Role != "admin" {
			mt.Errorf("response = %+v", res)
		}
	})

	mt.Run("default role", func(mt *mtest.T) {
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.user", mtest.FirstBatch, bson.D{
			{Key: "email", Value: "reader@example.com"},
		}))

		res, err := svc.Role(context.Background(), "reader@example.com")
		if err != nil {
			mt.Fatalf("Role() error = %v", err)
		}
		if res.Role != "user" || res.Email != "reader@example.com" {
			mt.Errorf("response = %+v, want stored email with role user", res)
		}
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		svc := NewUserService(repository.NewUserRepository(mt.Coll, testTimeout), nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.user", mtest.FirstBatch))

		_, err := svc.Role(context.Background(), "nobody@example.com")
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusNotFound || httpErr.Message != "User not found" {
			mt.Fatalf("Role() error = %v, want 404 User not found", err)
		}
	})
}

func TestBookService(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		svc := NewBookService(repository.NewBookRepository(mt.Coll, testTimeout))
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		res, err := svc.Create(context.Background(), bson.M{"name": "Dune", "image": "u.png", "pages": int32(412)})
		if err != nil {
			mt.Fatalf("Create() error = %v", err)
		}
		if !res.Success || res.Message != "Book added to MongoDB" || res.Result.InsertedID == nil {
			mt.Errorf("response = %+v", res)
		}
	})

	mt.Run("update", func(mt *mtest.T) {
		svc := NewBookService(repository.NewBookRepository(mt.Coll, testTimeout))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		res, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), bson.M{"name": "Dune", "pages": int32(500)})
		if err != nil {
			mt.Fatalf("Update() error = %v", err)
		}
		if !res.Success || res.Message != "Book updated successfully" {
			mt.Errorf("response = %+v", res)
		}
	})

	mt.Run("update without changes", func(mt *mtest.T) {
		svc := NewBookService(repository.NewBookRepository(mt.Coll, testTimeout))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		res, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), bson.M{"name": "Dune", "pages": int32(500)})
		if err != nil {
			mt.Fatalf("Update() error = %v", err)
		}
		if res.Success || res.Message != "No changes made or book not found" {
			mt.Errorf("response = %+v", res)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		svc := NewBookService(repository.NewBookRepository(mt.Coll, testTimeout))

		_, err := svc.Delete(context.Background(), "not-an-id")
		var httpErr *errs.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Status != http.StatusBadRequest {
			mt.Fatalf("Delete() error = %v, want 400", err)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		svc := NewBookService(repository.NewBookRepository(mt.Coll, testTimeout))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		res, err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
		if err != nil {
			mt.Fatalf("Delete() error = %v", err)
		}
		if !res.Success || res.Message != "Book deleted successfully" {
			mt.Errorf("response = %+v", res)
		}
	})

	mt.Run("delete unknown", func(mt *mtest.T) {
		svc := NewBookService(repository.NewBookRepository(mt.Coll, testTimeout))
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		res, err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
		if err != nil {
			mt.Fatalf("Delete() error = %v", err)
		}
		if res.Success || res.Message != "Book not found" {
			mt.Errorf("response = %+v", res)
		}
	})
}
