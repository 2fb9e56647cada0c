//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/postgres"
	"github.com/phrazzld/todolist/internal/store"
	"github.com/phrazzld/todolist/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_RoundTrip(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		users := postgres.NewPostgresUserStore(tx, nil)
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		details := postgres.NewPostgresDetailStore(tx, nil)

		user, err := domain.NewUser("Ada", "ada-"+uuid.NewString()+"@example.com", "password123")
		require.NoError(t, err)
		user.HashedPassword = "hash"
		require.NoError(t, users.Create(ctx, user))

		dup := *user
		dup.ID = uuid.New()
		dup.Email = domain.NormalizeEmail(user.Email)
		assert.ErrorIs(t, users.Create(ctx, &dup), store.ErrEmailExists)

		found, err := users.GetByEmail(ctx, "  "+user.Email+" ")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		due := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Microsecond)
		task, err := domain.NewTask(user.ID, "Taxes", &due)
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		detail, err := domain.NewDetail(task, "Find receipts", "")
		require.NoError(t, err)
		require.NoError(t, details.Create(ctx, detail))

		upcoming, err := tasks.FindUpcoming(ctx, time.Now().UTC(), time.Now().UTC().AddDate(0, 0, 7))
		require.NoError(t, err)
		var seen bool
		for _, u := range upcoming {
			if u.TaskID == task.ID {
				seen = true
				assert.Equal(t, user.Email, u.UserEmail)
			}
		}
		assert.True(t, seen, "task due tomorrow should be upcoming")

		require.NoError(t, tasks.Delete(ctx, task.ID))
		_, err = details.GetByID(ctx, detail.ID)
		assert.ErrorIs(t, err, store.ErrDetailNotFound, "details cascade with their task")
	})
}

func TestDetailStore_RejectsForeignOwner(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		owner := testdb.MustInsertUser(ctx, t, tx, "owner-"+uuid.NewString()+"@example.com")
		other := testdb.MustInsertUser(ctx, t, tx, "other-"+uuid.NewString()+"@example.com")

		task, err := domain.NewTask(owner, "Taxes", nil)
		require.NoError(t, err)
		require.NoError(t, postgres.NewPostgresTaskStore(tx, nil).Create(ctx, task))

		detail, err := domain.NewDetail(task, "Find receipts", "")
		require.NoError(t, err)
		detail.UserID = other

		err = postgres.NewPostgresDetailStore(tx, nil).Create(ctx, detail)
		assert.ErrorIs(t, err, domain.ErrDetailOwnerMismatch)
	})
}
