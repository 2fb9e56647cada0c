package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name, e.g.
// TODO_SERVER_PORT for server.port.
const EnvPrefix = "TODO"

// envFileVar names the variable that points at an optional dotenv file.
const envFileVar = "TODO_ENV_FILE"

// legacyEnv maps config keys to the variable names used by earlier
// deployments of the app. The prefixed name always wins.
var legacyEnv = map[string]string{
	"auth.secret_key":      "SECRET_KEY",
	"mail.sender_email":    "SENDER_EMAIL",
	"mail.sender_password": "SENDER_PASSWORD",
	"database.url":         "DATABASE_URL",
}

// ErrReminderSender is returned when reminders are enabled without a sender address.
var ErrReminderSender = errors.New("mail.sender_email is required when reminders are enabled")

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range allKeys {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		names := []string{key, prefixed}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(names...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Reminder.Enabled && c.Mail.SenderEmail == "" {
		return fmt.Errorf("config validation failed: %w", ErrReminderSender)
	}
	return nil
}

// loadDotEnv reads TODO_ENV_FILE (default .env) into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func loadDotEnv() error {
	path := os.Getenv(envFileVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// allKeys lists every key so viper binds it to the environment even when
// no default or config file mentions it.
var allKeys = []string{
	"server.port",
	"server.log_level",
	"database.url",
	"auth.secret_key",
	"auth.session_lifetime_minutes",
	"auth.cookie_secure",
	"auth.bcrypt_cost",
	"auth.login_rate_per_minute",
	"mail.host",
	"mail.port",
	"mail.sender_email",
	"mail.sender_password",
	"mail.allow_insecure",
	"reminder.enabled",
	"reminder.interval_seconds",
	"reminder.horizon_days",
	"reminder.misfire_grace_seconds",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.session_lifetime_minutes", 24*60)
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_rate_per_minute", 10)

	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.allow_insecure", false)

	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.interval_seconds", 60)
	v.SetDefault("reminder.horizon_days", 7)
	v.SetDefault("reminder.misfire_grace_seconds", 10000)
}
