package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByUserFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	UpdateFn       func(ctx context.Context, task *domain.Task) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	FindUpcomingFn func(ctx context.Context, from, to time.Time) ([]store.UpcomingTask, error)

	// Users backs the default FindUpcoming join; optional.
	Users *MockUserStore

	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

// ListByUser implements the TaskStore interface
func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var tasks []*domain.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			cp := *t
			tasks = append(tasks, &cp)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
	return tasks, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// FindUpcoming implements the TaskStore interface. Without Users set, the
// joined name and email are left empty.
func (m *MockTaskStore) FindUpcoming(ctx context.Context, from, to time.Time) ([]store.UpcomingTask, error) {
	if m.FindUpcomingFn != nil {
		return m.FindUpcomingFn(ctx, from, to)
	}

	m.mu.Lock()
	var rows []store.UpcomingTask
	owners := make(map[uuid.UUID]bool)
	for _, t := range m.tasks {
		if _, seen := owners[t.UserID]; !seen {
			owners[t.UserID] = false
		}
		if t.Completed || t.DueDate == nil || t.DueDate.Before(from) || t.DueDate.After(to) {
			continue
		}
		owners[t.UserID] = true
		rows = append(rows, store.UpcomingTask{
			UserID:   t.UserID,
			TaskID:   t.ID,
			TaskName: t.Name,
			DueDate:  *t.DueDate,
		})
	}
	for owner, hasDue := range owners {
		if !hasDue {
			rows = append(rows, store.UpcomingTask{UserID: owner})
		}
	}
	m.mu.Unlock()

	if m.Users != nil {
		for i := range rows {
			if u, err := m.Users.GetByID(ctx, rows[i].UserID); err == nil {
				rows[i].UserName = u.Name
				rows[i].UserEmail = u.Email
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UserID != rows[j].UserID {
			return rows[i].UserID.String() < rows[j].UserID.String()
		}
		return rows[i].DueDate.Before(rows[j].DueDate)
	})
	return rows, nil
}

// WithTx implements the TaskStore interface. The mock ignores transactions.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
