package types

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("requested item not found")
var ErrConflict = errors.New("item already exists or conflict")
var ErrUnauthenticated = errors.New("authentication required or invalid credentials")
var ErrForbidden = errors.New("action forbidden")
var ErrValidation = errors.New("invalid input")

// FieldError reports the first failing input field. Validation is
// fail-fast: callers never see more than one FieldError per request.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// NewFieldError builds a validation error for a single field.
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// ConflictError reports a uniqueness violation on a named field. Only the
// first conflict found is reported.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
