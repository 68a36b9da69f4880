package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemWorkspaceRepo is an in-memory WorkspaceRepo for tests that do not
// need MongoDB. All methods are safe for concurrent use, and AddMember is
// atomic in the same sense as the real store: concurrent joins of the
// same user produce exactly one membership.
type MemWorkspaceRepo struct {
	mu         sync.RWMutex
	workspaces map[primitive.ObjectID]models.Workspace

	// InsertErrs is consumed one entry per Insert call before the real
	// insert runs; a nil entry means that call succeeds. Use it to force
	// invite-token collisions.
	InsertErrs []error
}

// NewMemWorkspaceRepo returns an empty in-memory workspace repo.
func NewMemWorkspaceRepo() *MemWorkspaceRepo {
	return &MemWorkspaceRepo{workspaces: make(map[primitive.ObjectID]models.Workspace)}
}

func (r *MemWorkspaceRepo) Insert(ctx context.Context, ws models.Workspace) (models.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.InsertErrs) > 0 {
		err := r.InsertErrs[0]
		r.InsertErrs = r.InsertErrs[1:]
		if err != nil {
			return models.Workspace{}, err
		}
	}

	for _, existing := range r.workspaces {
		if existing.InviteToken == ws.InviteToken {
			return models.Workspace{}, faults.Conflict("invite token already exists")
		}
	}

	if ws.ID.IsZero() {
		ws.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if ws.CreatedAt.IsZero() {
		ws.CreatedAt = now
	}
	ws.UpdatedAt = now

	r.workspaces[ws.ID] = ws
	return ws, nil
}

func (r *MemWorkspaceRepo) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return models.Workspace{}, faults.NotFound("workspace not found")
	}
	return ws, nil
}

func (r *MemWorkspaceRepo) GetByInviteToken(ctx context.Context, token string) (models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ws := range r.workspaces {
		if ws.InviteToken == token {
			return ws, nil
		}
	}
	return models.Workspace{}, faults.NotFound("invalid invite token")
}

func (r *MemWorkspaceRepo) AddMember(ctx context.Context, workspaceID primitive.ObjectID, m models.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.workspaces[workspaceID]
	if !ok {
		return faults.NotFound("workspace not found")
	}
	if ws.HasMember(m.UserID) {
		return faults.AlreadyMember("user is already a member of this workspace")
	}

	ws.Members = append(ws.Members, m)
	ws.UpdatedAt = time.Now().UTC()
	r.workspaces[workspaceID] = ws
	return nil
}

func (r *MemWorkspaceRepo) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Workspace
	for _, ws := range r.workspaces {
		if ws.HasMember(userID) {
			out = append(out, ws)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MemNoteRepo is an in-memory note Repo with the same conditional-update
// semantics as the real store: Update only applies when the stored
// version-list length matches expectVersions, and reports a conflict
// otherwise.
type MemNoteRepo struct {
	mu    sync.Mutex
	notes map[primitive.ObjectID]models.Note
}

// NewMemNoteRepo returns an empty in-memory note repo.
func NewMemNoteRepo() *MemNoteRepo {
	return &MemNoteRepo{notes: make(map[primitive.ObjectID]models.Note)}
}

func (r *MemNoteRepo) Insert(ctx context.Context, n models.Note) (models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.UpdatedAt = now

	r.notes[n.ID] = n
	return n, nil
}

func (r *MemNoteRepo) Get(ctx context.Context, workspaceID, noteID primitive.ObjectID) (models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok || n.WorkspaceID != workspaceID {
		return models.Note{}, faults.NotFound("note not found")
	}
	return n, nil
}

func (r *MemNoteRepo) Update(ctx context.Context, workspaceID, noteID primitive.ObjectID, expectVersions int, title, content *string, allowTeammateEdit *bool) (models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok || n.WorkspaceID != workspaceID {
		return models.Note{}, faults.NotFound("note not found")
	}
	if len(n.Versions) != expectVersions {
		return models.Note{}, faults.Conflict("note was modified concurrently")
	}

	now := time.Now().UTC()
	if title != nil {
		n.Title = *title
	}
	if content != nil {
		n.Content = *content
		n.Versions = append(n.Versions, models.Version{
			Content: *content,
			SavedAt: now,
			Version: expectVersions + 1,
		})
		n.LastEditedAt = now
	}
	if allowTeammateEdit != nil {
		n.AllowTeammateEdit = *allowTeammateEdit
	}
	n.UpdatedAt = now

	r.notes[noteID] = n
	return n, nil
}

func (r *MemNoteRepo) DeleteByAuthor(ctx context.Context, workspaceID, noteID, authorID primitive.ObjectID) (models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[noteID]
	if !ok || n.WorkspaceID != workspaceID || n.AuthorID != authorID {
		return models.Note{}, faults.NotFound("note not found")
	}
	delete(r.notes, noteID)
	return n, nil
}

func (r *MemNoteRepo) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Note
	for _, n := range r.notes {
		if n.WorkspaceID == workspaceID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastEditedAt.After(out[j].LastEditedAt)
	})
	return out, nil
}

// MemActivityRepo is an in-memory activity Repo. Set FailWith to make
// Insert fail, for exercising the non-fatal audit-failure path.
type MemActivityRepo struct {
	mu      sync.Mutex
	entries []models.Activity

	// FailWith, when non-nil, is returned by every Insert call.
	FailWith error
}

// NewMemActivityRepo returns an empty in-memory activity repo.
func NewMemActivityRepo() *MemActivityRepo {
	return &MemActivityRepo{}
}

func (r *MemActivityRepo) Insert(ctx context.Context, a models.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailWith != nil {
		return r.FailWith
	}

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		// Entries inserted in one test run need distinct timestamps for
		// ordering assertions.
		a.CreatedAt = time.Now().UTC().Add(time.Duration(len(r.entries)) * time.Microsecond)
	}
	r.entries = append(r.entries, a)
	return nil
}

func (r *MemActivityRepo) RecentByWorkspace(ctx context.Context, workspaceID primitive.ObjectID, page, pageSize int) ([]models.Activity, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []models.Activity
	for _, a := range r.entries {
		if a.WorkspaceID == workspaceID {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []models.Activity{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Entries returns a copy of everything recorded so far, in insertion
// order.
func (r *MemActivityRepo) Entries() []models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Activity, len(r.entries))
	copy(out, r.entries)
	return out
}
