package mongoerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bookwarm/bookwarm-api/internal/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dupKeyPattern matches the server's E11000 message:
//
//	E11000 duplicate key error collection: JoBTask.user index: email_unique dup key: { email: "a@b.c" }
var dupKeyPattern = regexp.MustCompile(`collection: [^.\s]+\.(\S+) index: (\S+)(?: dup key: \{ ?([^:\s]+):)?`)

// ErrCode reports the mapped Code for a given error.
//
// If err unwraps into *Error its Code is returned, otherwise the error is
// classified on the fly.
func ErrCode(err error) Code {
	if err == nil {
		return Other
	}
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr.Code
	}
	return Convert(err).Code
}

// Wrap classifies err and records the collection the operation ran against.
// Returns nil for a nil err.
func Wrap(err error, collection string) error {
	if err == nil {
		return nil
	}
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}
	mErr := Convert(err)
	if mErr.Collection == "" {
		mErr.Collection = collection
	}
	return mErr
}

// Convert classifies a raw driver error.
func Convert(err error) *Error {
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr
	}

	out := &Error{Code: Other, Message: err.Error(), driverErr: err}

	switch {
	case mongo.IsDuplicateKeyError(err):
		out.Code = DuplicateKey
		out.DatabaseCode = duplicateKeyCode
		if m := dupKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			out.Collection = m[1]
			out.Index = m[2]
			out.Field = m[3]
		}
		if out.Field == "" {
			out.Field = fieldFromIndex(out.Index)
		}
	case errors.Is(err, mongo.ErrNoDocuments):
		out.Code = NoDocuments
	case errors.Is(err, primitive.ErrInvalidHex):
		out.Code = InvalidID
	case hasServerCode(err, documentValidationFailureCode):
		out.Code = DocumentValidation
		out.DatabaseCode = documentValidationFailureCode
	case mongo.IsTimeout(err):
		out.Code = Timeout
	case mongo.IsNetworkError(err):
		out.Code = Network
	}

	return out
}

func hasServerCode(err error, code int) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorCode(code)
	}
	return false
}

// fieldFromIndex recovers the field from index names following either the
// "<field>_unique" convention or the driver default "<field>_1".
func fieldFromIndex(index string) string {
	for _, suffix := range []string{"_unique", "_1", "_-1"} {
		if strings.HasSuffix(index, suffix) {
			return strings.TrimSuffix(index, suffix)
		}
	}
	return ""
}

// generateErrorCode builds <DOMAIN>_<ACTION>, e.g. user + DuplicateKey
// => USER_ALREADY_EXISTS.
func generateErrorCode(collection string, code Code) string {
	if collection == "" {
		collection = "RECORD"
	}

	domain := strings.ToUpper(collection)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch code {
	case DuplicateKey:
		action = "ALREADY_EXISTS"
	case NoDocuments:
		action = "NOT_FOUND"
	case InvalidID:
		action = "INVALID_ID"
	case DocumentValidation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(mErr *Error) string {
	entityName := getEntityName(mErr.Collection)

	switch mErr.Code {
	case DuplicateKey:
		field := humanizeText(mErr.Field)
		if field == "" {
			field = "identifier"
		}
		return fmt.Sprintf("A %s with this %s already exists", entityName, field)
	case NoDocuments:
		return fmt.Sprintf("%s not found", entityName)
	case InvalidID:
		return fmt.Sprintf("Invalid %s id", strings.ToLower(entityName))
	case DocumentValidation:
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName turns a collection name into the entity it stores:
// "books" and "book" both become "Book".
func getEntityName(collection string) string {
	if collection == "" {
		return "Record"
	}
	entity := collection
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return humanizeText(entity)
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a driver error into an application-level error.
//
//   - *errs.HTTPError: returned unchanged
//   - duplicate key: 400 <DOMAIN>_ALREADY_EXISTS
//   - no documents: 404 "<Entity> not found"
//   - malformed ObjectID: 400 <DOMAIN>_INVALID_ID
//   - document validation: 400 <DOMAIN>_INVALID
//   - anything else (timeouts and network errors included): 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	mErr := Convert(err)
	errorCode := generateErrorCode(mErr.Collection, mErr.Code)
	userMessage := formatUserFriendlyMessage(mErr)

	switch mErr.Code {
	case DuplicateKey:
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)
	case NoDocuments:
		return errs.NewNotFoundError(userMessage, true, &errorCode)
	case InvalidID:
		fieldErrors := []errs.FieldError{{Field: "id", Error: "must be a valid object id"}}
		return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)
	case DocumentValidation:
		return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)
	default:
		return errs.NewInternalServerError()
	}
}
