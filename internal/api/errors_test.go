package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/service"
	"github.com/phrazzld/todolist/internal/service/auth"
	"github.com/phrazzld/todolist/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired session", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"wrong token type", fmt.Errorf("validate: %w", auth.ErrWrongTokenType), http.StatusUnauthorized},
		{"bad password", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"task missing", store.ErrTaskNotFound, http.StatusNotFound},
		{"detail missing wrapped", fmt.Errorf("lookup: %w", store.ErrDetailNotFound), http.StatusNotFound},
		{"user missing", store.ErrUserNotFound, http.StatusNotFound},
		{"email taken", store.ErrEmailExists, http.StatusConflict},
		{"generic duplicate", fmt.Errorf("insert: %w", store.ErrDuplicate), http.StatusConflict},
		{"invalid id", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), http.StatusBadRequest},
		{"entity sentinel", domain.ErrTaskNameEmpty, http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("create: %w", domain.ErrDetailNotesLong), http.StatusBadRequest},
		{"field error", domain.NewValidationError("type", "is not supported", nil), http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"service error", service.NewServiceError("op", "failed", errors.New("db down")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"session", auth.ErrInvalidToken, "Your session is no longer valid. Please log in again."},
		{"not owned", service.ErrNotOwned, "You do not have access to this item"},
		{"task missing", store.ErrTaskNotFound, "Task not found"},
		{"detail missing", store.ErrDetailNotFound, "Subtask not found"},
		{"unknown email", store.ErrUserNotFound, msgUnknownEmail},
		{"email taken", store.ErrEmailExists, msgEmailRegistered},
		{"bad password", service.ErrInvalidCredentials, msgWrongPassword},
		{"invalid id", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), "Invalid identifier"},
		{"entity sentinel", domain.ErrTaskNameEmpty, "Task name cannot be empty."},
		{"field error", domain.NewValidationError("table", "is not supported", nil), "Invalid table: is not supported"},
		{"bare validation", domain.ErrValidation, "Invalid input"},
		{"internal details hidden", errors.New("pq: relation \"tasks\" does not exist"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestValidationMessages(t *testing.T) {
	t.Parallel()

	t.Run("register form", func(t *testing.T) {
		t.Parallel()

		err := shared.ValidateRequest(&RegisterForm{
			Name:            "",
			Email:           "nope",
			Password:        "short",
			ConfirmPassword: "other",
		})
		require.Error(t, err)

		assert.ElementsMatch(t, []string{
			"Name: required field",
			"Email: invalid email format",
			"Password must be at least 8 characters long.",
			"The passwords do not match.",
		}, ValidationMessages(err))
	})

	t.Run("domain error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"Subtask cannot be empty."}, ValidationMessages(domain.ErrDetailSubtaskEmpty))
	})

	t.Run("other error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"Validation error"}, ValidationMessages(errors.New("boom")))
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, ValidationMessages(nil))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(&LoginForm{})
	require.Error(t, err)

	assert.Equal(t, "Email: required field Password: required field", SanitizeValidationError(err))
	assert.Equal(t, "Validation error", SanitizeValidationError(nil))
}
