package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique entity is created twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated means the required credential is missing or invalid.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken is returned for any bearer token verification failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidCredentials is returned for a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden means the actor is authenticated but may not touch the resource.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a failure for field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether no field failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
