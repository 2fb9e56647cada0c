package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/todolist/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfigSummary logs the non-secret parts of cfg.
func logConfigSummary(logger *slog.Logger, cfg *config.Config) {
	logger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"reminders_enabled", cfg.Reminder.Enabled)

	logger.Debug("Auth configuration",
		"secret_key_present", cfg.Auth.SecretKey != "",
		"session_lifetime", cfg.Auth.SessionLifetime().String(),
		"cookie_secure", cfg.Auth.CookieSecure)
	logger.Debug("Mail configuration",
		"host", cfg.Mail.Host,
		"port", cfg.Mail.Port,
		"sender_present", cfg.Mail.SenderEmail != "")
}
