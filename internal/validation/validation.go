package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/bookwarm/bookwarm-api/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
//   - tag fields with validator rules (`validate:"required,objectid"`)
//   - implement Validate() error that runs Struct(req) and then any presence checks
//   - return validator.ValidationErrors or a *RequiredFieldsError
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// Used for rules that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// RequiredFieldsError carries the field errors of a failed presence check
// together with the message shown to clients.
type RequiredFieldsError struct {
	Message string
	Fields  CustomValidationErrors
}

func (e *RequiredFieldsError) Error() string {
	return e.Message
}

// BindAndValidate binds request data into payload and validates it.
//
//  1. c.Bind(payload) fills path params first, then the JSON body.
//  2. payload.Validate() applies validation rules.
//  3. Any failure becomes a 400 *errs.HTTPError.
//
// payload must be a pointer.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// bindError turns an echo bind failure into a 400 without leaking decoder internals.
func bindError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusUnsupportedMediaType {
			return errs.NewBadRequestError("Request body must be JSON", false, nil, nil, nil)
		}
		if msg, ok := he.Message.(string); ok && msg != "" {
			return errs.NewBadRequestError(msg, false, nil, nil, nil)
		}
	}
	return errs.NewBadRequestError("Invalid request body", false, nil, nil, nil)
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var required *RequiredFieldsError
	if errors.As(err, &required) {
		for _, e := range required.Fields {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return required.Message, fieldErrors
	}

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), []errs.FieldError{}
	}

	for _, err := range validationErrors {
		field := strings.ToLower(err.Field())
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		case "email":
			msg = "must be a valid email address"

		case ObjectIDTag:
			msg = "must be a valid object id"

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
