package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
)

// UpcomingTask is a row of the users×tasks join used by the reminder job.
// A row with a zero TaskID stands for an account that owns tasks, none of
// which are due in the window.
type UpcomingTask struct {
	UserID    uuid.UUID
	UserName  string
	UserEmail string
	TaskID    uuid.UUID
	TaskName  string
	DueDate   time.Time
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByUser returns the user's tasks ordered by due date (tasks
	// without a due date last), then by creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update persists the name, due date and completion flag of a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Details are removed by ON DELETE CASCADE.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindUpcoming returns, for every account that owns at least one task,
	// its incomplete tasks whose due date falls within [from, to], both ends
	// inclusive. Accounts with none of those get a single row with a zero
	// TaskID. Rows are ordered by account, then due date.
	FindUpcoming(ctx context.Context, from, to time.Time) ([]UpcomingTask, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
