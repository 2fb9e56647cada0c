// Package store defines interfaces for persisting accounts, tasks and
// details. Implementations live in internal/platform/postgres; this package
// only holds the contracts, shared errors and the transaction helper.
package store
