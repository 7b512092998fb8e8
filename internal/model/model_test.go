package model

import (
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPresent(t *testing.T) {
	doc := bson.M{
		"name":      "Dune",
		"empty":     "",
		"nil":       nil,
		"zero":      float64(0),
		"zero32":    int32(0),
		"nan":       math.NaN(),
		"pages":     int32(412),
		"pagesText": "412",
		"false":     false,
		"true":      true,
		"tags":      bson.A{},
	}

	tests := []struct {
		key  string
		want bool
	}{
		{"name", true},
		{"pages", true},
		{"pagesText", true},
		{"true", true},
		{"tags", true},
		{"missing", false},
		{"empty", false},
		{"nil", false},
		{"zero", false},
		{"zero32", false},
		{"nan", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := Present(doc, tt.key); got != tt.want {
				t.Errorf("Present(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestRoleOf(t *testing.T) {
	tests := []struct {
		name string
		user bson.M
		want string
	}{
		{"stored role", bson.M{"email": "a@b.c", "role": "admin"}, "admin"},
		{"missing role", bson.M{"email": "a@b.c"}, DefaultRole},
		{"empty role", bson.M{"email": "a@b.c", "role": ""}, DefaultRole},
		{"non-string role", bson.M{"email": "a@b.c", "role": int32(1)}, DefaultRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoleOf(tt.user); got != tt.want {
				t.Errorf("RoleOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
