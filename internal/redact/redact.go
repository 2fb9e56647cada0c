// Package redact strips credentials, connection strings, session tokens and
// email addresses from strings before they are logged. The reminder job and
// the web layer both handle all four, so every error that may carry one is
// passed through Error before it reaches a log line.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules are applied in order; earlier rules must not leave text that a
// later rule would mangle.
var rules = []rule{
	// user:password@ in database and SMTP URLs
	{regexp.MustCompile(`(?i)\b(postgres(?:ql)?|smtps?|mysql)://\S+@`), RedactedCredentialPlaceholder},
	// session cookies and bearer tokens
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedTokenPlaceholder},
	// password=..., pwd: ...
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]+['"]?)[^'"&\s]{3,}`), "${1}${2}" + RedactedCredentialPlaceholder},
	// secret_key=..., token: ...
	{regexp.MustCompile(`(?i)(secret(?:_key)?|token|api[_-]?key)([=:\s]+['"]?)[A-Za-z0-9_\-.~+/!]{8,}`), "${1}${2}" + RedactedKeyPlaceholder},
	// SMTP AUTH PLAIN/LOGIN payloads echoed back in server errors
	{regexp.MustCompile(`(?i)(AUTH\s+(?:PLAIN|LOGIN)\s+)[A-Za-z0-9+/=]+`), "${1}" + RedactedCredentialPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Email masks the local part of an address while keeping the domain,
// which is enough to tell mail providers apart in logs.
func Email(addr string) string {
	at := -1
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == '@' {
			at = i
			break
		}
	}
	if at <= 0 {
		return RedactedEmailPlaceholder
	}
	return addr[:1] + "***" + addr[at:]
}
