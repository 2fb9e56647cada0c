package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxTaskNameLength = 255

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskUserIDEmpty is returned when a task's owner is empty or nil.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskNameEmpty is returned when a task has no name.
	ErrTaskNameEmpty = errors.New("task name cannot be empty")

	// ErrTaskNameTooLong is returned when a task name exceeds 255 characters.
	ErrTaskNameTooLong = errors.New("task name must be at most 255 characters long")
)

// Task is a to-do item owned by a single user. DueDate is optional.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Name      string     `json:"name"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTask creates an incomplete Task for userID.
func NewTask(userID uuid.UUID, name string, dueDate *time.Time) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		DueDate:   normalizeDue(dueDate),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}
	if t.Name == "" {
		return ErrTaskNameEmpty
	}
	if len(t.Name) > maxTaskNameLength {
		return ErrTaskNameTooLong
	}
	return nil
}

// Rename changes the task name and, when dueDate is non-nil, its due date.
// A nil dueDate leaves the stored due date untouched. On validation failure
// the task is left unchanged.
func (t *Task) Rename(name string, dueDate *time.Time) error {
	orig := *t

	t.Name = strings.TrimSpace(name)
	if dueDate != nil {
		t.DueDate = normalizeDue(dueDate)
	}

	if err := t.Validate(); err != nil {
		*t = orig
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.UserID == userID
}

// HasDueDate reports whether a due date is set.
func (t *Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// normalizeDue copies the value so callers can't mutate the task through
// the pointer they passed in. Zero times mean "no due date".
func normalizeDue(due *time.Time) *time.Time {
	if due == nil || due.IsZero() {
		return nil
	}
	d := due.UTC()
	return &d
}
