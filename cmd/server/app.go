package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todolist/internal/api"
	"github.com/phrazzld/todolist/internal/config"
	"github.com/phrazzld/todolist/internal/job"
	"github.com/phrazzld/todolist/internal/platform/mail"
	"github.com/phrazzld/todolist/internal/platform/postgres"
	"github.com/phrazzld/todolist/internal/reminder"
	"github.com/phrazzld/todolist/internal/service"
	"github.com/phrazzld/todolist/internal/service/auth"
	"github.com/phrazzld/todolist/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore   store.UserStore
	taskStore   store.TaskStore
	detailStore store.DetailStore

	// Service interfaces
	sessionService auth.SessionService
	userService    service.UserService
	todoService    service.TodoService
	renderer       *api.Renderer

	// Reminder emails; scheduler is nil when reminders are disabled.
	mailer    mail.Mailer
	scheduler *job.Scheduler
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.sessionService, err = auth.NewSessionService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session service: %w", err)
	}
	logger.Info("Session service initialized",
		"session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes)

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.detailStore = postgres.NewPostgresDetailStore(db, logger)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.userService, err = service.NewUserService(app.userStore, hasher, hasher, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.todoService, err = service.NewTodoService(db, app.taskStore, app.detailStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo service: %w", err)
	}

	app.renderer, err = api.NewRenderer(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	app.mailer = mail.NewSMTPMailer(cfg.Mail, logger)
	if cfg.Reminder.Enabled {
		app.scheduler, err = setupReminderScheduler(app)
		if err != nil {
			return nil, fmt.Errorf("failed to setup reminder scheduler: %w", err)
		}
	} else {
		logger.Info("Reminder emails disabled")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupReminderScheduler builds the reminder job and the scheduler that
// fires it. The scheduler is started by Run.
func setupReminderScheduler(app *application) (*job.Scheduler, error) {
	reminderJob, err := reminder.NewJob(
		app.taskStore,
		app.mailer,
		app.config.Reminder.HorizonDays,
		app.logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder job: %w", err)
	}

	return job.NewScheduler(reminderJob, job.IntervalConfig{
		Interval:     app.config.Reminder.Interval(),
		MisfireGrace: app.config.Reminder.MisfireGrace(),
	}, app.logger)
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	if app.scheduler != nil {
		app.scheduler.Start()
		app.logger.Info("Reminder scheduler started",
			"interval", app.config.Reminder.Interval().String(),
			"horizon_days", app.config.Reminder.HorizonDays)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("Application shutdown completed")
}
