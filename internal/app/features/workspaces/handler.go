// internal/app/features/workspaces/handler.go
package workspaces

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/teamnotes/internal/app/core/activity"
	"github.com/dalemusser/teamnotes/internal/app/core/registry"
	"github.com/dalemusser/teamnotes/internal/app/system/authz"
	"github.com/dalemusser/teamnotes/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamnotes/internal/app/system/limits"
	"github.com/dalemusser/teamnotes/internal/app/system/paging"
	"github.com/dalemusser/teamnotes/internal/app/system/respond"
	"github.com/dalemusser/teamnotes/internal/app/system/timeouts"
	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for workspace management and the
// workspace activity feed.
type Handler struct {
	Registry   *registry.Registry
	Activities *activity.Log
	Log        *zap.Logger
}

// NewHandler creates a new workspaces Handler.
func NewHandler(reg *registry.Registry, activities *activity.Log, logger *zap.Logger) *Handler {
	return &Handler{Registry: reg, Activities: activities, Log: logger}
}

// stripWarning logs a non-fatal audit warning and clears it, so handlers
// can treat the call as successful.
func (h *Handler) stripWarning(err error) error {
	if err != nil && faults.IsWarning(err) {
		h.Log.Warn("activity append failed after successful mutation", zap.Error(err))
		return nil
	}
	return err
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate handles POST /api/workspaces.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws, err := h.Registry.CreateWorkspace(r.Context(), userID,
		htmlsanitize.Strict(req.Name), htmlsanitize.Strict(req.Description))
	if err = h.stripWarning(err); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message":   "Workspace created successfully",
		"workspace": ws,
	})
}

// HandleList handles GET /api/workspaces.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}

	summaries, err := h.Registry.ListWorkspacesFor(r.Context(), userID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string][]registry.Summary{"workspaces": summaries})
}

// HandleJoin handles POST /api/workspaces/join/{token}.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}

	token := chi.URLParam(r, "token")
	ws, err := h.Registry.RedeemInvite(r.Context(), token, userID)
	if err = h.stripWarning(err); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message":   "Successfully joined workspace",
		"workspace": ws,
	})
}

// workspaceID extracts and validates the {workspaceID} URL parameter.
func workspaceID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "workspaceID"))
	if err != nil {
		return primitive.NilObjectID, faults.NotFound("workspace not found")
	}
	return id, nil
}

// HandleGet handles GET /api/workspaces/{workspaceID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}

	wsID, err := workspaceID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ws, _, err := h.Registry.RequireMember(r.Context(), wsID, userID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]models.Workspace{"workspace": ws})
}

// HandleActivities handles GET /api/workspaces/{workspaceID}/activities.
func (h *Handler) HandleActivities(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}

	wsID, err := workspaceID(r)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	if _, _, err := h.Registry.RequireMember(r.Context(), wsID, userID); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "workspace activity feed")
	defer cancel()

	page := paging.ParsePage(r)
	limit := paging.ParseLimit(r)
	entries, total, err := h.Activities.RecentForWorkspace(ctx, wsID, page, limit)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"activities": entries,
		"pagination": map[string]any{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": paging.PageCount(total, limit),
		},
	})
}
