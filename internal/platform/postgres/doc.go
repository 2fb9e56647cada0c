// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store, plus the embedded goose migrations
// that create the users, tasks and details tables.
package postgres
