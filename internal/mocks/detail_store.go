package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/store"
)

// MockDetailStore implements store.DetailStore for testing
type MockDetailStore struct {
	CreateFn       func(ctx context.Context, detail *domain.Detail) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Detail, error)
	ListByTaskFn   func(ctx context.Context, taskID uuid.UUID) ([]*domain.Detail, error)
	CountByTaskFn  func(ctx context.Context, taskID uuid.UUID) (int, error)
	UpdateFn       func(ctx context.Context, detail *domain.Detail) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	DeleteByTaskFn func(ctx context.Context, taskID uuid.UUID) (int64, error)

	mu      sync.Mutex
	details map[uuid.UUID]*domain.Detail
}

var _ store.DetailStore = (*MockDetailStore)(nil)

// NewMockDetailStore creates an empty in-memory detail store.
func NewMockDetailStore() *MockDetailStore {
	return &MockDetailStore{details: make(map[uuid.UUID]*domain.Detail)}
}

// Create implements the DetailStore interface
func (m *MockDetailStore) Create(ctx context.Context, detail *domain.Detail) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, detail)
	}
	if err := detail.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *detail
	m.details[detail.ID] = &cp
	return nil
}

// GetByID implements the DetailStore interface
func (m *MockDetailStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Detail, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.details[id]
	if !ok {
		return nil, store.ErrDetailNotFound
	}
	cp := *d
	return &cp, nil
}

// ListByTask implements the DetailStore interface
func (m *MockDetailStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Detail, error) {
	if m.ListByTaskFn != nil {
		return m.ListByTaskFn(ctx, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var details []*domain.Detail
	for _, d := range m.details {
		if d.TaskID == taskID {
			cp := *d
			details = append(details, &cp)
		}
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].CreatedAt.Before(details[j].CreatedAt)
	})
	return details, nil
}

// CountByTask implements the DetailStore interface
func (m *MockDetailStore) CountByTask(ctx context.Context, taskID uuid.UUID) (int, error) {
	if m.CountByTaskFn != nil {
		return m.CountByTaskFn(ctx, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, d := range m.details {
		if d.TaskID == taskID {
			n++
		}
	}
	return n, nil
}

// Update implements the DetailStore interface
func (m *MockDetailStore) Update(ctx context.Context, detail *domain.Detail) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, detail)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.details[detail.ID]; !ok {
		return store.ErrDetailNotFound
	}
	cp := *detail
	m.details[detail.ID] = &cp
	return nil
}

// Delete implements the DetailStore interface
func (m *MockDetailStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.details[id]; !ok {
		return store.ErrDetailNotFound
	}
	delete(m.details, id)
	return nil
}

// DeleteByTask implements the DetailStore interface
func (m *MockDetailStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	if m.DeleteByTaskFn != nil {
		return m.DeleteByTaskFn(ctx, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, d := range m.details {
		if d.TaskID == taskID {
			delete(m.details, id)
			n++
		}
	}
	return n, nil
}

// WithTx implements the DetailStore interface. The mock ignores transactions.
func (m *MockDetailStore) WithTx(tx *sql.Tx) store.DetailStore {
	return m
}
