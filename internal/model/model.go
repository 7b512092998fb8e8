// Package model holds the document and response shapes shared by the
// repository, service and handler layers.
//
// Stored documents are free-form: the API persists whatever fields the client
// sends, so they travel as bson.M. Only the fields the API reads (email, role,
// name, image, pages) are named here.
package model

import (
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

// Document field names.
const (
	FieldID    = "_id"
	FieldEmail = "email"
	FieldRole  = "role"
	FieldName  = "name"
	FieldImage = "image"
	FieldPages = "pages"
)

// Present reports whether key is in doc with a truthy value.
// Missing keys, nil, "", numeric zero, NaN and false all count as absent.
func Present(doc bson.M, key string) bool {
	v, ok := doc[key]
	if !ok {
		return false
	}

	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float32:
		return val != 0 && !math.IsNaN(float64(val))
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}

// InsertResult is the insert outcome echoed back to clients.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

// MessageResponse is the {success, message} body used by update and delete.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
