package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/store"
)

// TaskList is the home page view of a user's tasks.
type TaskList struct {
	Tasks []*domain.Task
	// SomeCompleted and SomeUncompleted drive the section headings.
	SomeCompleted   bool
	SomeUncompleted bool
}

// TodoService provides the task and detail operations. Every method takes
// the acting user's ID and returns ErrNotOwned when the target belongs to
// someone else.
type TodoService interface {
	ListTasks(ctx context.Context, userID uuid.UUID) (*TaskList, error)
	CreateTask(ctx context.Context, userID uuid.UUID, name string, due *time.Time) (*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	// UpdateTask renames a task. A nil due date keeps the stored one.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, name string, due *time.Time) (*domain.Task, error)
	ToggleTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	// DeleteTask removes the task and its details in one transaction.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	ListDetails(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.Detail, error)
	AddDetail(ctx context.Context, userID, taskID uuid.UUID, subtask, notes string) (*domain.Detail, error)
	GetDetail(ctx context.Context, userID, detailID uuid.UUID) (*domain.Detail, error)
	UpdateDetail(ctx context.Context, userID, detailID uuid.UUID, subtask, notes string) (*domain.Detail, error)
	ToggleDetail(ctx context.Context, userID, detailID uuid.UUID) (*domain.Detail, error)
	// DeleteDetail returns the parent task ID and how many details it has
	// left. The delete and the count run in one transaction.
	DeleteDetail(ctx context.Context, userID, detailID uuid.UUID) (uuid.UUID, int, error)
}

type todoServiceImpl struct {
	db      *sql.DB
	tasks   store.TaskStore
	details store.DetailStore
	logger  *slog.Logger
}

// NewTodoService creates a new TodoService
// It returns an error if any of the required dependencies are nil.
func NewTodoService(
	db *sql.DB,
	tasks store.TaskStore,
	details store.DetailStore,
	logger *slog.Logger,
) (TodoService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if details == nil {
		return nil, domain.NewValidationError("details", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &todoServiceImpl{
		db:      db,
		tasks:   tasks,
		details: details,
		logger:  logger.With(slog.String("component", "todo_service")),
	}, nil
}

func (s *todoServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) (*TaskList, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("list_tasks", "failed to list tasks", err)
	}

	list := &TaskList{Tasks: tasks}
	for _, t := range tasks {
		if t.Completed {
			list.SomeCompleted = true
		} else {
			list.SomeUncompleted = true
		}
	}
	return list, nil
}

func (s *todoServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	due *time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, name, due)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("create_task", "failed to save task", err)
	}
	return task, nil
}

func (s *todoServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	return s.ownedTask(ctx, s.tasks, userID, taskID)
}

func (s *todoServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	name string,
	due *time.Time,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, s.tasks, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := task.Rename(name, due); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewServiceError("update_task", "failed to save task", err)
	}
	return task, nil
}

func (s *todoServiceImpl) ToggleTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, s.tasks, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Toggle()
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewServiceError("toggle_task", "failed to save task", err)
	}
	return task, nil
}

func (s *todoServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)
		txDetails := s.details.WithTx(tx)

		if _, err := s.ownedTask(ctx, txTasks, userID, taskID); err != nil {
			return err
		}
		removed, err := txDetails.DeleteByTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, taskID); err != nil {
			return err
		}

		log.Info("task deleted",
			slog.String("task_id", taskID.String()),
			slog.Int64("details_removed", removed))
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		return NewServiceError("delete_task", "failed to delete task", err)
	}
	return nil
}

func (s *todoServiceImpl) ListDetails(
	ctx context.Context,
	userID, taskID uuid.UUID,
) ([]*domain.Detail, error) {
	if _, err := s.ownedTask(ctx, s.tasks, userID, taskID); err != nil {
		return nil, err
	}
	details, err := s.details.ListByTask(ctx, taskID)
	if err != nil {
		return nil, NewServiceError("list_details", "failed to list details", err)
	}
	return details, nil
}

func (s *todoServiceImpl) AddDetail(
	ctx context.Context,
	userID, taskID uuid.UUID,
	subtask, notes string,
) (*domain.Detail, error) {
	task, err := s.ownedTask(ctx, s.tasks, userID, taskID)
	if err != nil {
		return nil, err
	}
	detail, err := domain.NewDetail(task, subtask, notes)
	if err != nil {
		return nil, err
	}
	if err := s.details.Create(ctx, detail); err != nil {
		return nil, NewServiceError("add_detail", "failed to save detail", err)
	}
	return detail, nil
}

func (s *todoServiceImpl) GetDetail(
	ctx context.Context,
	userID, detailID uuid.UUID,
) (*domain.Detail, error) {
	return s.ownedDetail(ctx, s.tasks, s.details, userID, detailID)
}

func (s *todoServiceImpl) UpdateDetail(
	ctx context.Context,
	userID, detailID uuid.UUID,
	subtask, notes string,
) (*domain.Detail, error) {
	detail, err := s.ownedDetail(ctx, s.tasks, s.details, userID, detailID)
	if err != nil {
		return nil, err
	}
	if err := detail.Edit(subtask, notes); err != nil {
		return nil, err
	}
	if err := s.details.Update(ctx, detail); err != nil {
		return nil, NewServiceError("update_detail", "failed to save detail", err)
	}
	return detail, nil
}

func (s *todoServiceImpl) ToggleDetail(
	ctx context.Context,
	userID, detailID uuid.UUID,
) (*domain.Detail, error) {
	detail, err := s.ownedDetail(ctx, s.tasks, s.details, userID, detailID)
	if err != nil {
		return nil, err
	}
	detail.Toggle()
	if err := s.details.Update(ctx, detail); err != nil {
		return nil, NewServiceError("toggle_detail", "failed to save detail", err)
	}
	return detail, nil
}

func (s *todoServiceImpl) DeleteDetail(
	ctx context.Context,
	userID, detailID uuid.UUID,
) (uuid.UUID, int, error) {
	var (
		taskID    uuid.UUID
		remaining int
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txDetails := s.details.WithTx(tx)

		detail, err := s.ownedDetail(ctx, s.tasks.WithTx(tx), txDetails, userID, detailID)
		if err != nil {
			return err
		}
		if err := txDetails.Delete(ctx, detailID); err != nil {
			return err
		}
		n, err := txDetails.CountByTask(ctx, detail.TaskID)
		if err != nil {
			return err
		}
		taskID, remaining = detail.TaskID, n
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return uuid.Nil, 0, err
		}
		return uuid.Nil, 0, NewServiceError("delete_detail", "failed to delete detail", err)
	}
	return taskID, remaining, nil
}

// ownedTask loads a task through tasks (which may be transaction-bound) and
// checks that userID owns it. Not-found errors pass through unwrapped.
func (s *todoServiceImpl) ownedTask(
	ctx context.Context,
	tasks store.TaskStore,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("get_task", "failed to retrieve task", err)
	}
	if !task.OwnedBy(userID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("task access denied",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return task, nil
}

// ownedDetail loads a detail and its parent task through the given stores.
// userID must own the task, and the detail must agree with the task on both
// task and owner.
func (s *todoServiceImpl) ownedDetail(
	ctx context.Context,
	tasks store.TaskStore,
	details store.DetailStore,
	userID, detailID uuid.UUID,
) (*domain.Detail, error) {
	detail, err := details.GetByID(ctx, detailID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewServiceError("get_detail", "failed to retrieve detail", err)
	}

	task, err := s.ownedTask(ctx, tasks, userID, detail.TaskID)
	if err != nil {
		return nil, err
	}
	if !detail.BelongsTo(task) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("detail access denied",
			slog.String("detail_id", detailID.String()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrNotOwned
	}
	return detail, nil
}
