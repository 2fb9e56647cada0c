package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogGooseLogger(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	l := &slogGooseLogger{logger: logger}

	l.Printf("OK   %s (%dms)", "00001_create_users.sql", 12)
	l.Fatalf("failed to apply %s", "00002_create_tasks.sql")

	out := buf.String()
	assert.Contains(t, out, `"level":"INFO"`)
	assert.Contains(t, out, "OK   00001_create_users.sql (12ms)")
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "failed to apply 00002_create_tasks.sql")
}

func TestRunMigrationsUnknownCommand(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	logger, buf := testLogger()
	err = runMigrations(context.Background(), db, "redo-everything", logger)

	assert.ErrorContains(t, err, "unknown migration command")
	assert.Contains(t, buf.String(), "Migration failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
