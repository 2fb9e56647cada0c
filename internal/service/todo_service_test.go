package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/mocks"
	"github.com/phrazzld/todolist/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type todoFixture struct {
	svc     TodoService
	tasks   *mocks.MockTaskStore
	details *mocks.MockDetailStore
	dbMock  sqlmock.Sqlmock
}

func newTodoFixture(t *testing.T) *todoFixture {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tasks := mocks.NewMockTaskStore()
	details := mocks.NewMockDetailStore()
	svc, err := NewTodoService(db, tasks, details, nil)
	require.NoError(t, err)
	return &todoFixture{svc: svc, tasks: tasks, details: details, dbMock: dbMock}
}

func ptr(t time.Time) *time.Time { return &t }

func TestNewTodoService_NilDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewTodoService(nil, mocks.NewMockTaskStore(), mocks.NewMockDetailStore(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	db := &sql.DB{}
	_, err = NewTodoService(db, nil, mocks.NewMockDetailStore(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = NewTodoService(db, mocks.NewMockTaskStore(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTodoService_ListTasks_Flags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTodoFixture(t)
	owner := uuid.New()

	list, err := f.svc.ListTasks(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list.Tasks)
	assert.False(t, list.SomeCompleted)
	assert.False(t, list.SomeUncompleted)

	a, err := f.svc.CreateTask(ctx, owner, "Taxes", ptr(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	_, err = f.svc.CreateTask(ctx, owner, "Someday", nil)
	require.NoError(t, err)
	_, err = f.svc.CreateTask(ctx, uuid.New(), "Not mine", nil)
	require.NoError(t, err)

	list, err = f.svc.ListTasks(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list.Tasks, 2)
	assert.Equal(t, "Taxes", list.Tasks[0].Name, "dated tasks sort before undated ones")
	assert.False(t, list.SomeCompleted)
	assert.True(t, list.SomeUncompleted)

	_, err = f.svc.ToggleTask(ctx, owner, a.ID)
	require.NoError(t, err)

	list, err = f.svc.ListTasks(ctx, owner)
	require.NoError(t, err)
	assert.True(t, list.SomeCompleted)
	assert.True(t, list.SomeUncompleted)
}

func TestTodoService_CreateTask_Validation(t *testing.T) {
	t.Parallel()

	f := newTodoFixture(t)
	_, err := f.svc.CreateTask(context.Background(), uuid.New(), "   ", nil)
	assert.ErrorIs(t, err, domain.ErrTaskNameEmpty)
}

func TestTodoService_UpdateTask_KeepsDueDateWhenNil(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTodoFixture(t)
	owner := uuid.New()
	due := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)

	task, err := f.svc.CreateTask(ctx, owner, "Taxes", &due)
	require.NoError(t, err)

	updated, err := f.svc.UpdateTask(ctx, owner, task.ID, "File taxes", nil)
	require.NoError(t, err)
	assert.Equal(t, "File taxes", updated.Name)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))

	newDue := due.AddDate(0, 0, 1)
	updated, err = f.svc.UpdateTask(ctx, owner, task.ID, "File taxes", &newDue)
	require.NoError(t, err)
	assert.True(t, newDue.Equal(*updated.DueDate))
}

func TestTodoService_Ownership(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTodoFixture(t)
	owner, intruder := uuid.New(), uuid.New()

	task, err := f.svc.CreateTask(ctx, owner, "Taxes", nil)
	require.NoError(t, err)
	detail, err := f.svc.AddDetail(ctx, owner, task.ID, "Find receipts", "")
	require.NoError(t, err)

	checks := map[string]func() error{
		"GetTask": func() error { _, err := f.svc.GetTask(ctx, intruder, task.ID); return err },
		"UpdateTask": func() error {
			_, err := f.svc.UpdateTask(ctx, intruder, task.ID, "x", nil)
			return err
		},
		"ToggleTask":  func() error { _, err := f.svc.ToggleTask(ctx, intruder, task.ID); return err },
		"ListDetails": func() error { _, err := f.svc.ListDetails(ctx, intruder, task.ID); return err },
		"AddDetail": func() error {
			_, err := f.svc.AddDetail(ctx, intruder, task.ID, "x", "")
			return err
		},
		"GetDetail": func() error { _, err := f.svc.GetDetail(ctx, intruder, detail.ID); return err },
		"UpdateDetail": func() error {
			_, err := f.svc.UpdateDetail(ctx, intruder, detail.ID, "x", "")
			return err
		},
		"ToggleDetail": func() error { _, err := f.svc.ToggleDetail(ctx, intruder, detail.ID); return err },
		"DeleteDetail": func() error { _, _, err := f.svc.DeleteDetail(ctx, intruder, detail.ID); return err },
	}

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	for name, check := range checks {
		assert.ErrorIs(t, check(), ErrNotOwned, name)
	}
	assert.NoError(t, f.dbMock.ExpectationsWereMet())

	// Nothing changed for the owner.
	got, err := f.svc.GetTask(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Taxes", got.Name)
	assert.False(t, got.Completed)
}

func TestTodoService_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTodoFixture(t)

	_, err := f.svc.GetTask(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = f.svc.GetDetail(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrDetailNotFound)
}

func TestTodoService_Details(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTodoFixture(t)
	owner := uuid.New()

	task, err := f.svc.CreateTask(ctx, owner, "Move house", nil)
	require.NoError(t, err)

	first, err := f.svc.AddDetail(ctx, owner, task.ID, "Pack books", "two boxes")
	require.NoError(t, err)
	assert.Equal(t, owner, first.UserID, "detail inherits the task owner")
	second, err := f.svc.AddDetail(ctx, owner, task.ID, "Book van", "")
	require.NoError(t, err)

	edited, err := f.svc.UpdateDetail(ctx, owner, second.ID, "Book big van", "Tuesday")
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", edited.Notes)

	toggled, err := f.svc.ToggleDetail(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	details, err := f.svc.ListDetails(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Len(t, details, 2)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()
	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	taskID, remaining, err := f.svc.DeleteDetail(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, taskID)
	assert.Equal(t, 1, remaining)

	_, remaining, err = f.svc.DeleteDetail(ctx, owner, second.ID)
	require.NoError(t, err)
	assert.Zero(t, remaining)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestTodoService_DetailMustMatchItsTask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTodoFixture(t)
	owner := uuid.New()

	mine, err := f.svc.CreateTask(ctx, owner, "Move house", nil)
	require.NoError(t, err)
	theirs, err := f.svc.CreateTask(ctx, uuid.New(), "Paint fence", nil)
	require.NoError(t, err)

	// Filed under someone else's task.
	stray, err := domain.NewDetail(mine, "Buy paint", "")
	require.NoError(t, err)
	stray.TaskID = theirs.ID
	require.NoError(t, f.details.Create(ctx, stray))

	_, err = f.svc.GetDetail(ctx, owner, stray.ID)
	assert.ErrorIs(t, err, ErrNotOwned)

	// Under owner's task, but recorded for another account.
	foreign, err := domain.NewDetail(mine, "Borrow ladder", "")
	require.NoError(t, err)
	foreign.UserID = uuid.New()
	require.NoError(t, f.details.Create(ctx, foreign))

	_, err = f.svc.GetDetail(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
	_, err = f.svc.ToggleDetail(ctx, owner, foreign.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
	_, err = f.svc.GetDetail(ctx, foreign.UserID, foreign.ID)
	assert.ErrorIs(t, err, ErrNotOwned, "the task owner decides")

	// Detail left behind by a task that no longer exists.
	orphan, err := domain.NewDetail(mine, "Find keys", "")
	require.NoError(t, err)
	require.NoError(t, f.details.Create(ctx, orphan))
	require.NoError(t, f.tasks.Delete(ctx, mine.ID))

	_, err = f.svc.GetDetail(ctx, owner, orphan.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTodoService_DeleteDetail_RollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newTodoFixture(t)
	owner := uuid.New()

	task, err := f.svc.CreateTask(ctx, owner, "Move house", nil)
	require.NoError(t, err)
	detail, err := f.svc.AddDetail(ctx, owner, task.ID, "Pack books", "")
	require.NoError(t, err)

	dbErr := errors.New("connection reset")
	f.details.CountByTaskFn = func(context.Context, uuid.UUID) (int, error) { return 0, dbErr }

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	_, _, err = f.svc.DeleteDetail(ctx, owner, detail.ID)
	assert.ErrorIs(t, err, dbErr)
	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestTodoService_DeleteTask(t *testing.T) {
	t.Parallel()

	t.Run("removes details and task in one transaction", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newTodoFixture(t)
		owner := uuid.New()

		task, err := f.svc.CreateTask(ctx, owner, "Move house", nil)
		require.NoError(t, err)
		_, err = f.svc.AddDetail(ctx, owner, task.ID, "Pack books", "")
		require.NoError(t, err)

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectCommit()

		require.NoError(t, f.svc.DeleteTask(ctx, owner, task.ID))
		assert.NoError(t, f.dbMock.ExpectationsWereMet())

		_, err = f.svc.GetTask(ctx, owner, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		n, err := f.details.CountByTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rolls back for another user's task", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newTodoFixture(t)

		task, err := f.svc.CreateTask(ctx, uuid.New(), "Move house", nil)
		require.NoError(t, err)

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectRollback()

		assert.ErrorIs(t, f.svc.DeleteTask(ctx, uuid.New(), task.ID), ErrNotOwned)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})

	t.Run("rolls back when the task delete fails", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		f := newTodoFixture(t)
		owner := uuid.New()

		task, err := f.svc.CreateTask(ctx, owner, "Move house", nil)
		require.NoError(t, err)
		dbErr := errors.New("deadlock detected")
		f.tasks.DeleteFn = func(context.Context, uuid.UUID) error { return dbErr }

		f.dbMock.ExpectBegin()
		f.dbMock.ExpectRollback()

		err = f.svc.DeleteTask(ctx, owner, task.ID)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, f.dbMock.ExpectationsWereMet())
	})
}
