package model

// CreateBookResponse answers POST /books.
type CreateBookResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Result  *InsertResult `json:"result"`
}
