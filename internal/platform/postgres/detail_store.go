package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/store"
)

const detailOwnerConstraint = "details_task_owner_fkey"

// PostgresDetailStore implements the store.DetailStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDetailStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDetailStore creates a new PostgreSQL implementation of the DetailStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDetailStore(db store.DBTX, logger *slog.Logger) *PostgresDetailStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDetailStore{
		db:     db,
		logger: logger.With(slog.String("component", "detail_store")),
	}
}

// Ensure PostgresDetailStore implements store.DetailStore interface
var _ store.DetailStore = (*PostgresDetailStore)(nil)

// Create implements store.DetailStore.Create.
// Returns store.ErrInvalidEntity if the task doesn't exist or has a different owner.
func (s *PostgresDetailStore) Create(ctx context.Context, detail *domain.Detail) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := detail.Validate(); err != nil {
		log.Warn("detail validation failed during create",
			slog.String("error", err.Error()),
			slog.String("detail_id", detail.ID.String()))
		return err
	}

	query := `
		INSERT INTO details (id, user_id, task_id, subtask, notes, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		detail.ID,
		detail.UserID,
		detail.TaskID,
		detail.Subtask,
		nullString(detail.Notes),
		detail.Completed,
		detail.CreatedAt,
		detail.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			log.Warn("foreign key violation during detail creation",
				slog.String("detail_id", detail.ID.String()),
				slog.String("task_id", detail.TaskID.String()),
				slog.String("constraint", pgErr.ConstraintName))
			if pgErr.ConstraintName == detailOwnerConstraint {
				return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrDetailOwnerMismatch)
			}
			return fmt.Errorf("%w: task with ID %s not found",
				store.ErrInvalidEntity, detail.TaskID)
		}

		log.Error("failed to create detail",
			slog.String("error", err.Error()),
			slog.String("detail_id", detail.ID.String()))
		return MapError(err)
	}

	log.Info("detail created successfully",
		slog.String("detail_id", detail.ID.String()),
		slog.String("task_id", detail.TaskID.String()))
	return nil
}

// GetByID implements store.DetailStore.GetByID.
// Returns store.ErrDetailNotFound if the detail does not exist.
func (s *PostgresDetailStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Detail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, task_id, subtask, notes, completed, created_at, updated_at
		FROM details
		WHERE id = $1
	`
	detail, err := scanDetail(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("detail not found", slog.String("detail_id", id.String()))
			return nil, store.ErrDetailNotFound
		}
		log.Error("failed to get detail by ID",
			slog.String("error", err.Error()),
			slog.String("detail_id", id.String()))
		return nil, MapError(err)
	}

	return detail, nil
}

// ListByTask implements store.DetailStore.ListByTask.
func (s *PostgresDetailStore) ListByTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Detail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, task_id, subtask, notes, completed, created_at, updated_at
		FROM details
		WHERE task_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to list details",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var details []*domain.Detail
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			log.Error("failed to scan detail row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating detail rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return details, nil
}

// CountByTask implements store.DetailStore.CountByTask.
func (s *PostgresDetailStore) CountByTask(ctx context.Context, taskID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM details WHERE task_id = $1`, taskID).Scan(&count)
	if err != nil {
		log.Error("failed to count details",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return 0, MapError(err)
	}
	return count, nil
}

// Update implements store.DetailStore.Update.
// Returns store.ErrDetailNotFound if the detail does not exist.
func (s *PostgresDetailStore) Update(ctx context.Context, detail *domain.Detail) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := detail.Validate(); err != nil {
		log.Warn("detail validation failed during update",
			slog.String("error", err.Error()),
			slog.String("detail_id", detail.ID.String()))
		return err
	}

	query := `
		UPDATE details
		SET subtask = $1, notes = $2, completed = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		detail.Subtask,
		nullString(detail.Notes),
		detail.Completed,
		detail.UpdatedAt,
		detail.ID,
	)
	if err != nil {
		log.Error("failed to update detail",
			slog.String("error", err.Error()),
			slog.String("detail_id", detail.ID.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrDetailNotFound); err != nil {
		return err
	}

	log.Info("detail updated successfully", slog.String("detail_id", detail.ID.String()))
	return nil
}

// Delete implements store.DetailStore.Delete.
// Returns store.ErrDetailNotFound if the detail does not exist.
func (s *PostgresDetailStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM details WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete detail",
			slog.String("error", err.Error()),
			slog.String("detail_id", id.String()))
		return MapError(err)
	}

	if err := checkRowsAffected(result, store.ErrDetailNotFound); err != nil {
		return err
	}

	log.Info("detail deleted successfully", slog.String("detail_id", id.String()))
	return nil
}

// DeleteByTask implements store.DetailStore.DeleteByTask.
func (s *PostgresDetailStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM details WHERE task_id = $1`, taskID)
	if err != nil {
		log.Error("failed to delete details for task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("deleted details for task",
		slog.String("task_id", taskID.String()),
		slog.Int64("count", n))
	return n, nil
}

// WithTx implements store.DetailStore.WithTx.
func (s *PostgresDetailStore) WithTx(tx *sql.Tx) store.DetailStore {
	return &PostgresDetailStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanDetail(row rowScanner) (*domain.Detail, error) {
	var detail domain.Detail
	var notes sql.NullString
	if err := row.Scan(
		&detail.ID,
		&detail.UserID,
		&detail.TaskID,
		&detail.Subtask,
		&notes,
		&detail.Completed,
		&detail.CreatedAt,
		&detail.UpdatedAt,
	); err != nil {
		return nil, err
	}
	detail.Notes = notes.String
	return &detail, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
