// Package auth provides password hashing and the signed session tokens
// carried in the session cookie.
package auth
