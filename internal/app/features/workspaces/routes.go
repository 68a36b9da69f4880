// internal/app/features/workspaces/routes.go
package workspaces

import (
	systemauth "github.com/dalemusser/teamnotes/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the workspace endpoints. All of them require a signed-in
// caller; workspace-scoped routes additionally gate on membership inside
// the handlers.
func Routes(h *Handler, tm *systemauth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Use(tm.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Post("/join/{token}", h.HandleJoin)
	r.Get("/{workspaceID}", h.HandleGet)
	r.Get("/{workspaceID}/activities", h.HandleActivities)

	return r
}
