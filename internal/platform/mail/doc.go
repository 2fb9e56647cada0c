// Package mail sends plaintext email over SMTP. A single Send call opens
// one connection, upgrades it with STARTTLS when offered, authenticates,
// and delivers the whole batch before quitting.
package mail
