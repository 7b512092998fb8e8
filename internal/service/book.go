package service

import (
	"context"

	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/bookwarm/bookwarm-api/internal/mongoerr"
	"github.com/bookwarm/bookwarm-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookService struct {
	books *repository.BookRepository
}

func NewBookService(books *repository.BookRepository) *BookService {
	return &BookService{books: books}
}

func (s *BookService) Create(ctx context.Context, doc bson.M) (*model.CreateBookResponse, error) {
	result, err := s.books.Insert(ctx, doc)
	if err != nil {
		return nil, err
	}

	return &model.CreateBookResponse{
		Success: true,
		Message: "Book added to MongoDB",
		Result:  result,
	}, nil
}

func (s *BookService) List(ctx context.Context) ([]bson.M, error) {
	return s.books.FindAll(ctx)
}

// Update merges doc into the book. An unknown id and an update that changes
// nothing both answer success:false rather than an error.
func (s *BookService) Update(ctx context.Context, id string, doc bson.M) (*model.MessageResponse, error) {
	oid, err := parseBookID(id)
	if err != nil {
		return nil, err
	}

	modified, err := s.books.UpdateByID(ctx, oid, doc)
	if err != nil {
		return nil, err
	}

	if modified == 0 {
		return &model.MessageResponse{Success: false, Message: "No changes made or book not found"}, nil
	}
	return &model.MessageResponse{Success: true, Message: "Book updated successfully"}, nil
}

// Delete removes the book. An unknown id answers success:false rather than an error.
func (s *BookService) Delete(ctx context.Context, id string) (*model.MessageResponse, error) {
	oid, err := parseBookID(id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.books.DeleteByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if deleted == 0 {
		return &model.MessageResponse{Success: false, Message: "Book not found"}, nil
	}
	return &model.MessageResponse{Success: true, Message: "Book deleted successfully"}, nil
}

// parseBookID converts a path id; a malformed one becomes a 400.
func parseBookID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, mongoerr.HandleError(mongoerr.Wrap(primitive.ErrInvalidHex, "book"))
	}
	return oid, nil
}
