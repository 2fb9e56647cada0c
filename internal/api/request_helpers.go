package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/phrazzld/todolist/internal/domain"
	"github.com/phrazzld/todolist/internal/platform/logger"
)

// getUserIDFromContext extracts the logged-in user's UUID from the request
// context, where the session middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getQueryUUID extracts and parses a UUID from the query string.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.UUID{}, error): A zero UUID and a validation error if the
//     parameter is missing or malformed
func getQueryUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := r.URL.Query().Get(paramName)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleUserIDAndQueryUUID is a composite helper that extracts both the user
// ID from context and a UUID from the query string. It renders an error page
// if either extraction fails.
func handleUserIDAndQueryUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	rd *Renderer,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		// RequireUser guards every caller; reaching here is a wiring bug.
		logger.FromContext(r.Context()).Error("user ID missing from context",
			slog.String("path", r.URL.Path))
		rd.Error(w, r, http.StatusUnauthorized, "Please log in to access this page.")
		return uuid.Nil, uuid.Nil, false
	}

	id, err := getQueryUUID(r, paramName)
	if err != nil {
		respondWithServiceError(w, r, rd, err)
		return uuid.Nil, uuid.Nil, false
	}

	return userID, id, true
}

// respondWithServiceError logs err and renders the matching error page.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, rd *Renderer, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.LogErrorResponse(r, status, message, err, opts...)
	rd.Error(w, r, status, message)
}

// redirectBack sends the user to the page they came from when the Referer
// points at this host, and to fallback otherwise. Only the path and query
// of the Referer are used.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	http.Redirect(w, r, backURL(r, fallback), http.StatusSeeOther)
}

func backURL(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host != r.Host || u.Path == "" || u.Path[0] != '/' {
		return fallback
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return fallback
	}
	// A leading "//" or "/\" would be read by browsers as another host.
	if strings.HasPrefix(u.Path, "//") || strings.HasPrefix(u.Path, "/\\") {
		return fallback
	}
	back := u.RequestURI()
	if strings.HasPrefix(back, "//") || strings.HasPrefix(back, "/\\") {
		return fallback
	}
	return back
}

// flashValidation queues one error flash per validation message.
func flashValidation(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Debug("form rejected",
		slog.String("path", r.URL.Path),
		slog.String("reason", SanitizeValidationError(err)))
	shared.AddFlash(w, r, validationFlashes(err)...)
}

// validationFlashes is flashValidation for pages rendered in the same
// response.
func validationFlashes(err error) []shared.Flash {
	msgs := ValidationMessages(err)
	flashes := make([]shared.Flash, 0, len(msgs))
	for _, msg := range msgs {
		flashes = append(flashes, shared.Flash{Category: shared.FlashError, Message: msg})
	}
	return flashes
}
