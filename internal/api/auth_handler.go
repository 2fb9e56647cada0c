package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/todolist/internal/api/shared"
	"github.com/phrazzld/todolist/internal/platform/logger"
	"github.com/phrazzld/todolist/internal/redact"
	"github.com/phrazzld/todolist/internal/service"
	"github.com/phrazzld/todolist/internal/service/auth"
	"github.com/phrazzld/todolist/internal/store"
)

// User-facing messages for the account pages.
const (
	msgLoggedIn          = "Logged in successfully!"
	msgRegistered        = "Thanks for registering."
	msgUnknownEmail      = "This e-mail does not exist. Try to register instead."
	msgWrongPassword     = "Incorrect Password. Try Again."
	msgEmailRegistered   = "This e-mail is already registered. Try login instead."
	msgSessionIssueError = "Could not start your session. Please try again."
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users        service.UserService
	sessions     auth.SessionService
	renderer     *Renderer
	cookieSecure bool
	logger       *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	sessions auth.SessionService,
	renderer *Renderer,
	cookieSecure bool,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:        users,
		sessions:     sessions,
		renderer:     renderer,
		cookieSecure: cookieSecure,
		logger:       logger.With(slog.String("component", "auth_handler")),
	}
}

// Login handles POST / for anonymous users.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var form LoginForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	if err := shared.ValidateRequest(&form); err != nil {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, validationFlashes(err)...)
		return
	}

	user, err := h.users.Authenticate(r.Context(), form.Email, form.Password)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrUserNotFound):
		shared.AddFlash(w, r, shared.Flash{Category: shared.FlashError, Message: msgUnknownEmail})
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Info("failed login attempt", slog.String("email", redact.Email(form.Email)))
		h.renderLogin(w, r, http.StatusUnauthorized, form,
			shared.Flash{Category: shared.FlashError, Message: msgWrongPassword})
		return
	default:
		respondWithServiceError(w, r, h.renderer, err)
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}
	shared.AddFlash(w, r, shared.Flash{Category: shared.FlashConfirmation, Message: msgLoggedIn})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowRegister handles GET /register.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderRegister(w, r, http.StatusOK, RegisterForm{})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var form RegisterForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Error(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	if err := shared.ValidateRequest(&form); err != nil {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, validationFlashes(err)...)
		return
	}

	user, err := h.users.Register(r.Context(), form.Name, form.Email, form.Password)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrEmailExists):
		shared.AddFlash(w, r, shared.Flash{Category: shared.FlashError, Message: msgEmailRegistered})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	case MapErrorToStatusCode(err) == http.StatusBadRequest:
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, validationFlashes(err)...)
		return
	default:
		respondWithServiceError(w, r, h.renderer, err)
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}
	shared.AddFlash(w, r,
		shared.Flash{Category: shared.FlashConfirmation, Message: msgRegistered},
		shared.Flash{Category: shared.FlashConfirmation, Message: msgLoggedIn},
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	shared.ClearSessionCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startSession issues a session token and sets the cookie. It renders an
// error page and returns false on failure.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	token, expiresAt, err := h.sessions.Issue(r.Context(), userID)
	if err != nil {
		shared.LogErrorResponse(r, http.StatusInternalServerError, msgSessionIssueError, err)
		h.renderer.Error(w, r, http.StatusInternalServerError, msgSessionIssueError)
		return false
	}
	shared.SetSessionCookie(w, token, expiresAt, h.cookieSecure)
	return true
}

func (h *AuthHandler) renderLogin(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form LoginForm,
	flashes ...shared.Flash,
) {
	h.renderer.Render(w, r, status, pageIndex, &indexView{
		page:      page{Title: "Log In", Flashes: flashes},
		LoginForm: LoginForm{Email: form.Email},
	})
}

func (h *AuthHandler) renderRegister(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form RegisterForm,
	flashes ...shared.Flash,
) {
	h.renderer.Render(w, r, status, pageRegister, &registerView{
		page: page{Title: "Register", Flashes: flashes},
		Form: RegisterForm{Name: form.Name, Email: form.Email},
	})
}
