package handler

import (
	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/bookwarm/bookwarm-api/internal/server"
	"github.com/bookwarm/bookwarm-api/internal/service"
	"github.com/bookwarm/bookwarm-api/internal/validation"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
)

// CreateBookRequest is stored as sent once name, image and pages are present.
type CreateBookRequest struct {
	documentBody
}

func (r *CreateBookRequest) Validate() error {
	return validation.RequirePresent(r.Document, "Book name, image, and pages are required",
		model.FieldName, model.FieldImage, model.FieldPages)
}

type ListBooksRequest struct{}

func (r *ListBooksRequest) Validate() error {
	return nil
}

// UpdateBookRequest merges its body into the book; name and pages must be present.
type UpdateBookRequest struct {
	ID string `param:"id" json:"-" validate:"required,objectid"`
	documentBody
}

func (r *UpdateBookRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validation.RequirePresent(r.Document, "Book name and pages are required",
		model.FieldName, model.FieldPages)
}

type DeleteBookRequest struct {
	ID string `param:"id" json:"-" validate:"required,objectid"`
}

func (r *DeleteBookRequest) Validate() error {
	return validation.Struct(r)
}

type BookHandler struct {
	Handler
	books *service.BookService
}

func NewBookHandler(s *server.Server, books *service.BookService) *BookHandler {
	return &BookHandler{
		Handler: NewHandler(s),
		books:   books,
	}
}

func (h *BookHandler) CreateBook(c echo.Context, req *CreateBookRequest) (*model.CreateBookResponse, error) {
	return h.books.Create(c.Request().Context(), req.Document)
}

func (h *BookHandler) ListBooks(c echo.Context, _ *ListBooksRequest) ([]bson.M, error) {
	return h.books.List(c.Request().Context())
}

func (h *BookHandler) UpdateBook(c echo.Context, req *UpdateBookRequest) (*model.MessageResponse, error) {
	return h.books.Update(c.Request().Context(), req.ID, req.Document)
}

func (h *BookHandler) DeleteBook(c echo.Context, req *DeleteBookRequest) (*model.MessageResponse, error) {
	return h.books.Delete(c.Request().Context(), req.ID)
}
