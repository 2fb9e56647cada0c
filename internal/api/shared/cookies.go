package shared

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	// SessionCookieName carries the signed session token.
	SessionCookieName = "todo_session"

	// FlashCookieName carries pending flash messages between a redirect and
	// the next rendered page.
	FlashCookieName = "todo_flash"

	// FlashConfirmation and FlashError are the flash categories the pages style.
	FlashConfirmation = "confirmation"
	FlashError        = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SetSessionCookie stores the session token in an HttpOnly cookie that
// expires with the token.
func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AddFlash queues flashes for the next rendered page. Flashes already
// pending on the request are kept ahead of the new ones, so a redirect
// chain does not lose messages.
func AddFlash(w http.ResponseWriter, r *http.Request, flashes ...Flash) {
	if len(flashes) == 0 {
		return
	}
	pending := append(readFlashes(r), flashes...)

	raw, err := json.Marshal(pending)
	if err != nil {
		slog.Error("failed to encode flash messages", "error", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ConsumeFlashes returns the pending flashes and expires the cookie.
func ConsumeFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if _, err := r.Cookie(FlashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     FlashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

// readFlashes decodes the flash cookie. A malformed cookie yields no flashes.
func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		slog.Debug("discarding malformed flash cookie", "error", err)
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		slog.Debug("discarding malformed flash cookie", "error", err)
		return nil
	}
	return flashes
}
