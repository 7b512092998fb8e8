// Package mongoerr specifically handles MongoDB driver errors.
//
// It classifies driver errors (duplicate keys, missing documents, malformed
// ObjectIDs, document validation failures) and converts them into
// user-friendly errs.HTTPError values, e.g. a duplicate key on user.email
// becomes a 400 USER_ALREADY_EXISTS.
package mongoerr

import "fmt"

// Code is the normalized category of a driver error.
type Code string

const (
	Other              Code = "other"
	DuplicateKey       Code = "duplicate_key"
	NoDocuments        Code = "no_documents"
	InvalidID          Code = "invalid_id"
	DocumentValidation Code = "document_validation"
	Timeout            Code = "timeout"
	Network            Code = "network"
)

// Server error codes the classifier recognizes.
const (
	duplicateKeyCode              = 11000
	documentValidationFailureCode = 121
)

// Error is a classified driver error.
//
// Collection, Index and Field are filled in when they can be recovered from
// the driver error or were attached by the repository via Wrap.
type Error struct {
	Code         Code
	DatabaseCode int
	Message      string
	Collection   string
	Index        string
	Field        string

	driverErr error
}

func (e *Error) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("%s (collection %s): %s", e.Code, e.Collection, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the original driver error to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.driverErr
}
