package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxSubtaskLength = 500
	maxNotesLength   = 5000
)

// Detail-specific validation errors
var (
	ErrDetailIDEmpty       = errors.New("detail ID cannot be empty")
	ErrDetailUserIDEmpty   = errors.New("detail user ID cannot be empty")
	ErrDetailTaskIDEmpty   = errors.New("detail task ID cannot be empty")
	ErrDetailSubtaskEmpty  = errors.New("subtask cannot be empty")
	ErrDetailSubtaskLong   = errors.New("subtask must be at most 500 characters long")
	ErrDetailNotesLong     = errors.New("notes must be at most 5000 characters long")
	ErrDetailOwnerMismatch = errors.New("detail owner must match task owner")
)

// Detail is a sub-task with optional free-text notes, attached to a Task.
// Its UserID always equals the owning Task's UserID.
type Detail struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TaskID    uuid.UUID `json:"task_id"`
	Subtask   string    `json:"subtask"`
	Notes     string    `json:"notes,omitempty"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDetail creates an incomplete Detail under task. The owner is taken
// from the task so the two can never disagree.
func NewDetail(task *Task, subtask, notes string) (*Detail, error) {
	if task == nil {
		return nil, ErrDetailTaskIDEmpty
	}

	now := time.Now().UTC()
	detail := &Detail{
		ID:        uuid.New(),
		UserID:    task.UserID,
		TaskID:    task.ID,
		Subtask:   strings.TrimSpace(subtask),
		Notes:     strings.TrimSpace(notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := detail.Validate(); err != nil {
		return nil, err
	}

	return detail, nil
}

// Validate checks if the Detail has valid data.
func (d *Detail) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDetailIDEmpty
	}
	if d.UserID == uuid.Nil {
		return ErrDetailUserIDEmpty
	}
	if d.TaskID == uuid.Nil {
		return ErrDetailTaskIDEmpty
	}
	if d.Subtask == "" {
		return ErrDetailSubtaskEmpty
	}
	if len(d.Subtask) > maxSubtaskLength {
		return ErrDetailSubtaskLong
	}
	if len(d.Notes) > maxNotesLength {
		return ErrDetailNotesLong
	}
	return nil
}

// BelongsTo reports whether the detail is consistent with task: same task
// and same owner.
func (d *Detail) BelongsTo(task *Task) bool {
	return task != nil && d.TaskID == task.ID && d.UserID == task.UserID
}

// Edit replaces the subtask label and notes. On validation failure the
// detail is left unchanged.
func (d *Detail) Edit(subtask, notes string) error {
	orig := *d

	d.Subtask = strings.TrimSpace(subtask)
	d.Notes = strings.TrimSpace(notes)

	if err := d.Validate(); err != nil {
		*d = orig
		return err
	}

	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Toggle flips the completion flag.
func (d *Detail) Toggle() {
	d.Completed = !d.Completed
	d.UpdatedAt = time.Now().UTC()
}
