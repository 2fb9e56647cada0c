package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	userID := uuid.New()
	due := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))

	task, err := NewTask(userID, " Buy milk ", &due)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, userID, task.UserID)
	assert.Equal(t, "Buy milk", task.Name)
	assert.False(t, task.Completed)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(due))
	assert.Equal(t, time.UTC, task.DueDate.Location())

	// The task must not alias the caller's value.
	due = due.Add(time.Hour)
	assert.False(t, task.DueDate.Equal(due))
}

func TestNewTask_NoDueDate(t *testing.T) {
	task, err := NewTask(uuid.New(), "Someday", nil)
	require.NoError(t, err)
	assert.Nil(t, task.DueDate)
	assert.False(t, task.HasDueDate())

	zero := time.Time{}
	task, err = NewTask(uuid.New(), "Someday", &zero)
	require.NoError(t, err)
	assert.Nil(t, task.DueDate, "zero time means no due date")
}

func TestNewTask_ValidationErrors(t *testing.T) {
	_, err := NewTask(uuid.Nil, "x", nil)
	assert.ErrorIs(t, err, ErrTaskUserIDEmpty)

	_, err = NewTask(uuid.New(), "   ", nil)
	assert.ErrorIs(t, err, ErrTaskNameEmpty)

	_, err = NewTask(uuid.New(), strings.Repeat("x", 256), nil)
	assert.ErrorIs(t, err, ErrTaskNameTooLong)
}

func TestTaskRename(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	task, err := NewTask(uuid.New(), "Old", &due)
	require.NoError(t, err)

	t.Run("nil due date keeps stored value", func(t *testing.T) {
		require.NoError(t, task.Rename("New", nil))
		assert.Equal(t, "New", task.Name)
		require.NotNil(t, task.DueDate)
		assert.True(t, task.DueDate.Equal(due))
	})

	t.Run("due date replaced when given", func(t *testing.T) {
		later := due.Add(48 * time.Hour)
		require.NoError(t, task.Rename("Newer", &later))
		assert.True(t, task.DueDate.Equal(later))
	})

	t.Run("invalid rename leaves task unchanged", func(t *testing.T) {
		before := *task
		err := task.Rename("", nil)
		assert.ErrorIs(t, err, ErrTaskNameEmpty)
		assert.Equal(t, before, *task)
	})
}

func TestTaskToggleAndOwnership(t *testing.T) {
	owner := uuid.New()
	task, err := NewTask(owner, "Toggle me", nil)
	require.NoError(t, err)

	task.Toggle()
	assert.True(t, task.Completed)
	task.Toggle()
	assert.False(t, task.Completed)

	assert.True(t, task.OwnedBy(owner))
	assert.False(t, task.OwnedBy(uuid.New()))
}
