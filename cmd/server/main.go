// Package main implements the entry point for the to-do list web server,
// which serves the task pages and runs the reminder email job.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

// main loads configuration, sets up logging, connects to the database and
// either runs a single migration command or starts the HTTP server.
func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires the application together. A non-empty migrateCmd runs only that
// goose command; otherwise pending migrations are applied and the server
// runs until it receives SIGINT or SIGTERM.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}
	logConfigSummary(logger, cfg)

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, logger)
		return runMigrations(ctx, db, migrateCmd, logger)
	}

	if err := runMigrations(ctx, db, "up", logger); err != nil {
		closeDB(db, logger)
		return err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		closeDB(db, logger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
