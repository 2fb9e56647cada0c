// Package api serves the to-do list's HTML pages. It decodes and validates
// form submissions, calls the user and todo services, and renders the
// embedded templates. Failures are mapped to status codes and safe
// messages in errors.go so internal details never reach the browser.
package api
