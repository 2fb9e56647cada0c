// Package service holds the application logic between the web handlers and
// the stores: account registration and login, and the ownership-checked
// task and detail operations.
package service
