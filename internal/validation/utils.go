// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields or ObjectID formats) defined in struct tags,
// runs presence checks on free-form document bodies and
// extracts validation errors into a format the client can
// understand.
package validation

import (
	"sync"

	"github.com/bookwarm/bookwarm-api/internal/model"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectIDTag is the struct tag for 24-hex MongoDB ObjectIDs.
const ObjectIDTag = "objectid"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation(ObjectIDTag, func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
	})
	return validate
}

// Struct validates v against its struct tags.
func Struct(v any) error {
	return Validator().Struct(v)
}

// IsValidObjectID reports whether id is a 24 character hex string.
func IsValidObjectID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// RequirePresent checks that every key is present in doc (see model.Present).
// A nil return means all keys are there; otherwise the error lists each
// missing key and carries message for the client.
func RequirePresent(doc bson.M, message string, keys ...string) error {
	var missing CustomValidationErrors
	for _, key := range keys {
		if !model.Present(doc, key) {
			missing = append(missing, CustomValidationError{Field: key, Message: "is required"})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &RequiredFieldsError{Message: message, Fields: missing}
}
