// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field. A nil err
// defaults to ErrValidation so callers can always match on it.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// entityValidationErrors lists the sentinels returned by the entity
// Validate methods.
var entityValidationErrors = []error{
	ErrEmptyUserID, ErrEmptyUserName, ErrUserNameTooLong, ErrInvalidEmail, ErrEmptyEmail,
	ErrPasswordTooShort, ErrPasswordTooLong, ErrEmptyHashedPassword,
	ErrTaskIDEmpty, ErrTaskUserIDEmpty, ErrTaskNameEmpty, ErrTaskNameTooLong,
	ErrDetailIDEmpty, ErrDetailUserIDEmpty, ErrDetailTaskIDEmpty, ErrDetailSubtaskEmpty,
	ErrDetailSubtaskLong, ErrDetailNotesLong, ErrDetailOwnerMismatch,
}

// ValidationCause returns the entity validation sentinel err wraps, or nil.
// A *ValidationError or ErrValidation itself is returned as is.
func ValidationCause(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range entityValidationErrors {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	if errors.Is(err, ErrValidation) {
		return ErrValidation
	}
	return nil
}

// IsValidationError reports whether err stems from entity validation.
func IsValidationError(err error) bool {
	return ValidationCause(err) != nil
}
