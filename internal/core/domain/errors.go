package domain

import (
	"errors"
	"sort"
	"strings"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbidden = errors.New("access forbidden")

// ValidationError accumulates per-field validation messages, keyed the way
// clients expect them in the "errors" object of a 402/422 response.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message for field and returns the receiver for chaining.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// HasErrors reports whether any field message was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// IsValidation reports whether err is (or wraps) a ValidationError,
// returning it when so.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
