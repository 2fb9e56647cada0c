package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("email", "is required", nil)

	assert.Equal(t, "email is required", err.Error())
	assert.ErrorIs(t, err, ErrValidation, "nil cause defaults to ErrValidation")

	wrapped := NewValidationError("id", "has invalid format", ErrInvalidID)
	assert.ErrorIs(t, wrapped, ErrInvalidID)
}

func TestValidationCause(t *testing.T) {
	verr := NewValidationError("name", "cannot be empty", ErrValidation)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"sentinel", ErrTaskNameEmpty, ErrTaskNameEmpty},
		{"wrapped sentinel", fmt.Errorf("create: %w", ErrDetailNotesLong), ErrDetailNotesLong},
		{"validation error", verr, verr},
		{"bare ErrValidation", fmt.Errorf("x: %w", ErrValidation), ErrValidation},
		{"unrelated", errors.New("boom"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidationCause(tt.err))
			assert.Equal(t, tt.want != nil, IsValidationError(tt.err))
		})
	}
}
