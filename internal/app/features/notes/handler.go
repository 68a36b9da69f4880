// internal/app/features/notes/handler.go
package notes

import (
	"encoding/json"
	"net/http"

	corenotes "github.com/dalemusser/teamnotes/internal/app/core/notes"
	"github.com/dalemusser/teamnotes/internal/app/system/authz"
	"github.com/dalemusser/teamnotes/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamnotes/internal/app/system/limits"
	"github.com/dalemusser/teamnotes/internal/app/system/respond"
	"github.com/dalemusser/teamnotes/internal/app/system/timeouts"
	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler provides HTTP handlers for workspace notes.
type Handler struct {
	Notes *corenotes.Service
	Log   *zap.Logger
}

// NewHandler creates a new notes Handler.
func NewHandler(svc *corenotes.Service, logger *zap.Logger) *Handler {
	return &Handler{Notes: svc, Log: logger}
}

func (h *Handler) stripWarning(err error) error {
	if err != nil && faults.IsWarning(err) {
		h.Log.Warn("activity append failed after successful mutation", zap.Error(err))
		return nil
	}
	return err
}

func pathID(r *http.Request, name string, missing string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, faults.NotFound(missing)
	}
	return id, nil
}

type createRequest struct {
	Title             string `json:"title"`
	Content           string `json:"content"`
	AllowTeammateEdit *bool  `json:"allow_teammate_edit"`
}

// HandleCreate handles POST /api/notes/{workspaceID}.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}
	wsID, err := pathID(r, "workspaceID", "workspace not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	allowTeammateEdit := true
	if req.AllowTeammateEdit != nil {
		allowTeammateEdit = *req.AllowTeammateEdit
	}

	note, err := h.Notes.Create(r.Context(), wsID, userID,
		htmlsanitize.Strict(req.Title), htmlsanitize.Sanitize(req.Content), allowTeammateEdit)
	if err = h.stripWarning(err); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "Note created successfully",
		"note":    note,
	})
}

// HandleList handles GET /api/notes/{workspaceID}.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}
	wsID, err := pathID(r, "workspaceID", "workspace not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list workspace notes")
	defer cancel()

	listing, err := h.Notes.List(ctx, wsID, userID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, listing)
}

// HandleGet handles GET /api/notes/{workspaceID}/{noteID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}
	wsID, err := pathID(r, "workspaceID", "workspace not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	noteID, err := pathID(r, "noteID", "note not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	note, err := h.Notes.Get(r.Context(), wsID, noteID, userID)
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]models.Note{"note": note})
}

type updateRequest struct {
	Title             *string `json:"title"`
	Content           *string `json:"content"`
	AllowTeammateEdit *bool   `json:"allow_teammate_edit"`
}

// HandleUpdate handles PUT /api/notes/{workspaceID}/{noteID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}
	wsID, err := pathID(r, "workspaceID", "workspace not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	noteID, err := pathID(r, "noteID", "note not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := corenotes.UpdateInput{AllowTeammateEdit: req.AllowTeammateEdit}
	if req.Title != nil {
		title := htmlsanitize.Strict(*req.Title)
		in.Title = &title
	}
	if req.Content != nil {
		content := htmlsanitize.Sanitize(*req.Content)
		in.Content = &content
	}

	// The update may retry internally when editors race on the note.
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update note")
	defer cancel()

	note, err := h.Notes.Update(ctx, wsID, noteID, userID, in)
	if err = h.stripWarning(err); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Note updated successfully",
		"note":    note,
	})
}

// HandleDelete handles DELETE /api/notes/{workspaceID}/{noteID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "access token required")
		return
	}
	wsID, err := pathID(r, "workspaceID", "workspace not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	noteID, err := pathID(r, "noteID", "note not found")
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	_, err = h.Notes.Delete(r.Context(), wsID, noteID, userID)
	if err = h.stripWarning(err); err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	respond.Message(w, http.StatusOK, "Note deleted successfully")
}
