// internal/app/features/auth/routes.go
package auth

import (
	systemauth "github.com/dalemusser/teamnotes/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the authentication endpoints.
func Routes(h *Handler, tm *systemauth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(tm.RequireSignedIn)
		r.Get("/me", h.HandleMe)
	})

	return r
}
