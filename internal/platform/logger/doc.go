// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package. Loggers travel through
// context.Context so request-scoped attributes (such as trace IDs) reach
// every layer without explicit plumbing.
package logger
