// Package reminder implements the periodic job that emails each account a
// numbered list of its incomplete tasks falling due within the reminder
// horizon.
package reminder
