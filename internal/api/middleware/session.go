package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/redact"
	"github.com/phrazzld/todolist/internal/service/auth"
)

// LoginRequiredMessage is flashed when an anonymous user hits a page that
// needs a session.
const LoginRequiredMessage = "Please log in to access this page."

// SessionMiddleware resolves the session cookie into a user ID.
type SessionMiddleware struct {
	sessions     auth.SessionService
	cookieSecure bool
}

// NewSessionMiddleware creates a new SessionMiddleware with the given dependencies.
func NewSessionMiddleware(sessions auth.SessionService, cookieSecure bool) *SessionMiddleware {
	return &SessionMiddleware{
		sessions:     sessions,
		cookieSecure: cookieSecure,
	}
}

// Session validates the session cookie, when present, and adds the user ID
// to the request context. Requests without a valid session continue
// anonymously; an invalid or expired cookie is cleared.
func (m *SessionMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(shared.SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.sessions.Validate(r.Context(), cookie.Value)
		if err != nil {
			log := logger.FromContextOrDefault(r.Context(), slog.Default())
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				log.Debug("session expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				log.Warn("rejected session cookie", slog.String("error", redact.Error(err)))
			default:
				log.Error("failed to validate session", slog.String("error", redact.Error(err)))
			}
			shared.ClearSessionCookie(w, m.cookieSecure)
			next.ServeHTTP(w, r)
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		ctx = logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, slog.Default()).
			With(slog.String("user_id", claims.UserID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser redirects anonymous requests to the home page with a flash.
// It must run after Session.
func (m *SessionMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserID(r); !ok {
			shared.AddFlash(w, r, shared.Flash{
				Category: shared.FlashError,
				Message:  LoginRequiredMessage,
			})
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
