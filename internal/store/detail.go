package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
)

// DetailStore defines the interface for detail (sub-task) persistence.
type DetailStore interface {
	// Create saves a new detail.
	// Returns ErrInvalidEntity if the task does not exist or belongs to
	// a different user than the detail.
	Create(ctx context.Context, detail *domain.Detail) error

	// GetByID retrieves a detail by its unique ID.
	// Returns ErrDetailNotFound if the detail does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Detail, error)

	// ListByTask returns the task's details in creation order.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Detail, error)

	// CountByTask returns how many details the task has.
	CountByTask(ctx context.Context, taskID uuid.UUID) (int, error)

	// Update persists the subtask, notes and completion flag of a detail.
	// Returns ErrDetailNotFound if the detail does not exist.
	Update(ctx context.Context, detail *domain.Detail) error

	// Delete removes a detail.
	// Returns ErrDetailNotFound if the detail does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByTask removes every detail of a task and returns the count.
	DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error)

	// WithTx returns a new DetailStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DetailStore
}
