package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Ada  ", " Ada@Example.COM ", "password123")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email, "email should be normalized")
	assert.Equal(t, "password123", user.Password)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
}

func TestNewUser_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"empty name", "", "a@example.com", "password123", ErrEmptyUserName},
		{"long name", strings.Repeat("n", 256), "a@example.com", "password123", ErrUserNameTooLong},
		{"empty email", "Ada", "", "password123", ErrEmptyEmail},
		{"missing at", "Ada", "invalidemail", "password123", ErrInvalidEmail},
		{"missing domain dot", "Ada", "a@example", "password123", ErrInvalidEmail},
		{"display name form", "Ada", "Ada <a@example.com>", "password123", ErrInvalidEmail},
		{"short password", "Ada", "a@example.com", "short", ErrPasswordTooShort},
		{"long password", "Ada", "a@example.com", strings.Repeat("p", 73), ErrPasswordTooLong},
		{"empty password", "Ada", "a@example.com", "", ErrEmptyHashedPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, user)
		})
	}
}

func TestUserValidate_StoredUser(t *testing.T) {
	stored := User{
		ID:             uuid.New(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "$2a$10$hash",
	}
	assert.NoError(t, stored.Validate())

	stored.HashedPassword = ""
	assert.ErrorIs(t, stored.Validate(), ErrEmptyHashedPassword)

	stored.ID = uuid.Nil
	assert.ErrorIs(t, stored.Validate(), ErrEmptyUserID)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  USER@Example.com\t"))
}
