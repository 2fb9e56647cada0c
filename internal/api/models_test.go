package api

import (
	"testing"
	"time"

	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFormDue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dueDate string
		want    *time.Time
	}{
		{"empty", "", nil},
		{"unparsable", "next week", nil},
		{"datetime-local", "2026-03-15T08:45", ptrTime(time.Date(2026, 3, 15, 8, 45, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TaskForm{Name: "x", DueDate: tt.dueDate}.Due()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestFormValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		form    any
		wantErr bool
	}{
		{"login ok", &LoginForm{Email: "ada@example.com", Password: "x"}, false},
		{"login bad email", &LoginForm{Email: "ada", Password: "x"}, true},
		{"register ok", &RegisterForm{
			Name: "Ada", Email: "ada@example.com", Password: "password123", ConfirmPassword: "password123",
		}, false},
		{"register password too long", &RegisterForm{
			Name: "Ada", Email: "ada@example.com",
			Password:        string(make([]byte, 73)),
			ConfirmPassword: string(make([]byte, 73)),
		}, true},
		{"task without due date", &TaskForm{Name: "Laundry"}, false},
		{"task with due date", &TaskForm{Name: "Laundry", DueDate: "2026-01-02T03:04"}, false},
		{"task with seconds", &TaskForm{Name: "Laundry", DueDate: "2026-01-02T03:04:05"}, true},
		{"task without name", &TaskForm{DueDate: "2026-01-02T03:04"}, true},
		{"detail ok", &DetailForm{Subtask: "Sort colors"}, false},
		{"detail without subtask", &DetailForm{Notes: "only notes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := shared.ValidateRequest(tt.form)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
