package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/platform/mail"
	"github.com/phrazzld/todolist/internal/store"
)

// JobName identifies the reminder job in logs.
const JobName = "task_reminder"

// Job sends the reminder emails. It is safe to call Run repeatedly but not
// concurrently; the scheduler guarantees a single instance.
type Job struct {
	tasks       store.TaskStore
	mailer      mail.Mailer
	horizonDays int
	now         func() time.Time
	logger      *slog.Logger
}

// NewJob creates the reminder job.
// It returns an error if any of the required dependencies are nil.
func NewJob(
	tasks store.TaskStore,
	mailer mail.Mailer,
	horizonDays int,
	logger *slog.Logger,
) (*Job, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if mailer == nil {
		return nil, domain.NewValidationError("mailer", "cannot be nil", domain.ErrValidation)
	}
	if horizonDays <= 0 {
		return nil, domain.NewValidationError("horizonDays", "must be positive", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Job{
		tasks:       tasks,
		mailer:      mailer,
		horizonDays: horizonDays,
		now:         time.Now,
		logger:      logger.With(slog.String("component", JobName)),
	}, nil
}

// Name implements job.Job.
func (j *Job) Name() string {
	return JobName
}

// Run performs one reminder pass: find upcoming tasks, group them per
// account and send the whole batch over one mail session. Every account that
// owns a task gets a message, even when nothing is due in the window.
func (j *Job) Run(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, j.logger)
	window := NewWindow(j.now(), j.horizonDays)

	rows, err := j.tasks.FindUpcoming(ctx, window.Start, window.End)
	if err != nil {
		return fmt.Errorf("failed to load upcoming tasks: %w", err)
	}

	recipients := group(rows, window)
	msgs := Compose(recipients)
	if len(msgs) == 0 {
		log.Debug("no reminders to send",
			slog.Time("window_start", window.Start),
			slog.Time("window_end", window.End))
		return nil
	}

	if err := j.mailer.Send(ctx, msgs); err != nil {
		return fmt.Errorf("failed to send reminders: %w", err)
	}

	log.Info("reminders sent",
		slog.Int("recipients", len(msgs)),
		slog.Int("tasks", countTasks(recipients)))
	return nil
}

// group collects rows per account in first-seen order, keeping only tasks
// inside the window. Accounts keep their place even when no task survives.
func group(rows []store.UpcomingTask, window Window) []Recipient {
	index := make(map[uuid.UUID]int)
	var recipients []Recipient
	for _, row := range rows {
		i, ok := index[row.UserID]
		if !ok {
			i = len(recipients)
			index[row.UserID] = i
			recipients = append(recipients, Recipient{
				UserID: row.UserID,
				Name:   row.UserName,
				Email:  row.UserEmail,
			})
		}
		if row.TaskID == uuid.Nil || !window.Contains(row.DueDate) {
			continue
		}
		recipients[i].Tasks = append(recipients[i].Tasks, DueTask{
			Name:    row.TaskName,
			DueDate: row.DueDate,
		})
	}
	return recipients
}

func countTasks(recipients []Recipient) int {
	n := 0
	for _, r := range recipients {
		n += len(r.Tasks)
	}
	return n
}
