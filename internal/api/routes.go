package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/todolist/internal/api/middleware"
)

// Routes bundles the page handlers with the middleware that guards them.
type Routes struct {
	Auth     *AuthHandler
	Todo     *TodoHandler
	Sessions *middleware.SessionMiddleware
	Limiter  *middleware.RateLimiter
}

// Register mounts the application's pages on r.
func (rt Routes) Register(r chi.Router) {
	r.Get("/health", Health)
	r.NotFound(rt.Todo.NotFound)

	r.Group(func(r chi.Router) {
		r.Use(rt.Sessions.Session)

		r.Get("/", rt.Todo.Home)
		r.With(rt.Limiter.Limit).Post("/", ByLoginState(rt.Auth.Login, rt.Todo.CreateTask))
		r.Get("/register", rt.Auth.ShowRegister)
		r.With(rt.Limiter.Limit).Post("/register", rt.Auth.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.Sessions.RequireUser)

			r.Get("/task", rt.Todo.ShowTask)
			r.Post("/task", rt.Todo.AddDetail)
			r.Get("/completed", rt.Todo.ToggleCompleted)
			r.Get("/edit", rt.Todo.ShowEdit)
			r.Post("/edit", rt.Todo.Edit)
			r.Get("/delete", rt.Todo.Delete)
			r.Get("/logout", rt.Auth.Logout)
		})
	})
}
