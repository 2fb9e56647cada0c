package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	"github.com/phrazzld/todolist/internal/api"
	apiMiddleware "github.com/phrazzld/todolist/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(handlers.CompressHandler)

	cookieSecure := app.config.Auth.CookieSecure
	api.Routes{
		Auth: api.NewAuthHandler(
			app.userService,
			app.sessionService,
			app.renderer,
			cookieSecure,
			app.logger,
		),
		Todo:     api.NewTodoHandler(app.todoService, app.renderer, app.logger),
		Sessions: apiMiddleware.NewSessionMiddleware(app.sessionService, cookieSecure),
		Limiter:  apiMiddleware.NewRateLimiter(app.config.Auth.LoginRatePerMinute),
	}.Register(r)

	return r
}
