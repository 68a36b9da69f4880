// internal/app/features/notes/routes.go
package notes

import (
	systemauth "github.com/dalemusser/teamnotes/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the note endpoints. Every route requires a signed-in
// caller; membership and per-note permission checks happen in the
// notes service.
func Routes(h *Handler, tm *systemauth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tm.RequireSignedIn)

	r.Get("/{workspaceID}", h.HandleList)
	r.Post("/{workspaceID}", h.HandleCreate)
	r.Get("/{workspaceID}/{noteID}", h.HandleGet)
	r.Put("/{workspaceID}/{noteID}", h.HandleUpdate)
	r.Delete("/{workspaceID}/{noteID}", h.HandleDelete)

	return r
}
