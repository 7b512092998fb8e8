package model

import "go.mongodb.org/mongo-driver/bson"

// DefaultRole is reported for users stored without a role.
const DefaultRole = "user"

// RoleOf returns the stored role, or DefaultRole when it is missing or empty.
func RoleOf(user bson.M) string {
	if role, ok := user[FieldRole].(string); ok && role != "" {
		return role
	}
	return DefaultRole
}

// EmailOf returns the document's email, or "" when absent or not a string.
func EmailOf(user bson.M) string {
	email, _ := user[FieldEmail].(string)
	return email
}

// NameOf returns the document's name, or "" when absent or not a string.
func NameOf(doc bson.M) string {
	name, _ := doc[FieldName].(string)
	return name
}

// RegisterUserResponse answers POST /users. User is set when the email was
// already registered, Result when a new document was inserted.
type RegisterUserResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    bson.M        `json:"user,omitempty"`
	Result  *InsertResult `json:"result,omitempty"`
}

// RoleResponse answers GET /role/:email.
type RoleResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}
