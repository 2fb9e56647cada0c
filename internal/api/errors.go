package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/service"
	"github.com/phrazzld/todolist/internal/service/auth"
	"github.com/phrazzld/todolist/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrDetailNotFound):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidID),
		domain.IsValidationError(err):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Your session is no longer valid. Please log in again."

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect Password. Try Again."

	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this item"

	case errors.Is(err, store.ErrUserNotFound):
		return "This e-mail does not exist. Try to register instead."

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrDetailNotFound):
		return "Subtask not found"

	case errors.Is(err, store.ErrEmailExists):
		return "This e-mail is already registered. Try login instead."

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case domain.IsValidationError(err):
		return validationMessage(domain.ValidationCause(err))

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message. Multiple field errors are joined.
func SanitizeValidationError(err error) string {
	msgs := ValidationMessages(err)
	if len(msgs) == 0 {
		return "Validation error"
	}
	return strings.Join(msgs, " ")
}

// ValidationMessages turns validator field errors into one message per
// field. Errors of other types yield a single generic message.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if domain.IsValidationError(err) {
			return []string{validationMessage(domain.ValidationCause(err))}
		}
		return []string{"Validation error"}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldErrorMessage(fe))
	}
	return msgs
}

// validationMessage phrases a domain validation error for display.
func validationMessage(cause error) string {
	var verr *domain.ValidationError
	if errors.As(cause, &verr) {
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	}
	if errors.Is(cause, domain.ErrValidation) {
		return "Invalid input"
	}
	msg := cause.Error()
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "eqfield" && fe.Field() == "ConfirmPassword":
		return "The passwords do not match."
	case fe.Tag() == "min" && fe.Field() == "Password":
		return fmt.Sprintf("Password must be at least %s characters long.", fe.Param())
	}
	return fmt.Sprintf("%s: %s", fieldLabel(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// fieldLabel names form fields the way the pages label them.
func fieldLabel(field string) string {
	switch field {
	case "ConfirmPassword":
		return "Password confirmation"
	case "DueDate":
		return "Due date"
	case "Subtask":
		return "Subtask name"
	default:
		return field
	}
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "eqfield":
		return "does not match"
	case "datetime":
		return "invalid date and time"
	default:
		return "validation failed"
	}
}
