package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"     validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains session and credential settings.
type AuthConfig struct {
	// SecretKey signs session cookies.
	SecretKey              string `mapstructure:"secret_key"               validate:"required,min=32"`
	SessionLifetimeMinutes int    `mapstructure:"session_lifetime_minutes" validate:"required,gt=0"`
	CookieSecure           bool   `mapstructure:"cookie_secure"`
	BcryptCost             int    `mapstructure:"bcrypt_cost"              validate:"required,gte=4,lte=31"`
	LoginRatePerMinute     int    `mapstructure:"login_rate_per_minute"    validate:"required,gt=0"`
}

// SessionLifetime returns the session lifetime as a duration.
func (a AuthConfig) SessionLifetime() time.Duration {
	return time.Duration(a.SessionLifetimeMinutes) * time.Minute
}

// MailConfig holds the outbound SMTP settings used by the reminder job.
type MailConfig struct {
	Host           string `mapstructure:"host"            validate:"required,hostname|ip"`
	Port           int    `mapstructure:"port"            validate:"required,gt=0,lt=65536"`
	SenderEmail    string `mapstructure:"sender_email"    validate:"omitempty,email"`
	SenderPassword string `mapstructure:"sender_password"`

	// AllowInsecure permits sending over a server without STARTTLS. Only
	// meant for local relays and test servers.
	AllowInsecure bool `mapstructure:"allow_insecure"`
}

// ReminderConfig controls the periodic reminder email job.
type ReminderConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	IntervalSeconds     int  `mapstructure:"interval_seconds"      validate:"gt=0"`
	HorizonDays         int  `mapstructure:"horizon_days"          validate:"gt=0"`
	MisfireGraceSeconds int  `mapstructure:"misfire_grace_seconds" validate:"gte=0"`
}

// Interval returns the job interval as a duration.
func (r ReminderConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// MisfireGrace returns how late a tick may fire and still run.
func (r ReminderConfig) MisfireGrace() time.Duration {
	return time.Duration(r.MisfireGraceSeconds) * time.Second
}
