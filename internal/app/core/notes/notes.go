// internal/app/core/notes/notes.go

// Package notes owns note entities and their version chains. Every
// operation is gated on workspace membership, and content writes append
// exactly one new version with the next sequential number.
package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/teamnotes/internal/app/policy/notepolicy"
	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Repo is the storage contract for notes. Update must be atomic per note:
// the expectVersions argument pins the version-list length observed by the
// caller, and a concurrent append in between reports KindConflict instead
// of writing a colliding version number.
type Repo interface {
	Insert(ctx context.Context, n models.Note) (models.Note, error)
	Get(ctx context.Context, workspaceID, noteID primitive.ObjectID) (models.Note, error)
	Update(ctx context.Context, workspaceID, noteID primitive.ObjectID, expectVersions int, title, content *string, allowTeammateEdit *bool) (models.Note, error)
	DeleteByAuthor(ctx context.Context, workspaceID, noteID, authorID primitive.ObjectID) (models.Note, error)
	ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Note, error)
}

// MembershipGate answers whether a user may operate inside a workspace.
type MembershipGate interface {
	RequireMember(ctx context.Context, workspaceID, userID primitive.ObjectID) (models.Workspace, models.Membership, error)
}

// ActivityRecorder appends one audit entry per successful mutation.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, workspaceID primitive.ObjectID, action models.Action, details string, metadata map[string]any) error
}

// updateAttempts bounds the re-read loop when concurrent editors race on
// the same note. Each retry re-evaluates permissions against the fresh
// note state.
const updateAttempts = 3

// Service is the note store.
type Service struct {
	repo     Repo
	members  MembershipGate
	activity ActivityRecorder
	log      *zap.Logger
}

func NewService(repo Repo, members MembershipGate, activity ActivityRecorder, logger *zap.Logger) *Service {
	return &Service{repo: repo, members: members, activity: activity, log: logger}
}

// Create adds a note authored by authorID with a single version numbered 1.
func (s *Service) Create(ctx context.Context, workspaceID, authorID primitive.ObjectID, title, content string, allowTeammateEdit bool) (models.Note, error) {
	if _, _, err := s.members.RequireMember(ctx, workspaceID, authorID); err != nil {
		return models.Note{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return models.Note{}, faults.Validation("note title is required")
	}

	now := time.Now().UTC()
	created, err := s.repo.Insert(ctx, models.Note{
		Title:             title,
		Content:           content,
		AuthorID:          authorID,
		WorkspaceID:       workspaceID,
		AllowTeammateEdit: allowTeammateEdit,
		Versions: []models.Version{{
			Content: content,
			SavedAt: now,
			Version: 1,
		}},
		LastEditedAt: now,
	})
	if err != nil {
		return models.Note{}, err
	}

	details := fmt.Sprintf("Created note %q", created.Title)
	meta := map[string]any{"note_id": created.ID.Hex()}
	if aerr := s.activity.Record(ctx, authorID, workspaceID, models.ActionCreatedNote, details, meta); aerr != nil {
		return created, faults.Warn(fmt.Errorf("record note creation: %w", aerr))
	}
	return created, nil
}

// UpdateInput carries the optional field changes for Update. Nil fields
// are left untouched.
type UpdateInput struct {
	Title             *string
	Content           *string
	AllowTeammateEdit *bool
}

// Update applies in to the note. A content change appends one new version
// numbered previous+1. The caller must pass the edit check
// (author or teammate edits allowed); a supplied teammate-edit flag is
// silently dropped when the caller is not the author. Exactly one
// updated_note activity is emitted per successful call.
func (s *Service) Update(ctx context.Context, workspaceID, noteID, editorID primitive.ObjectID, in UpdateInput) (models.Note, error) {
	if _, _, err := s.members.RequireMember(ctx, workspaceID, editorID); err != nil {
		return models.Note{}, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return models.Note{}, faults.Validation("note title cannot be empty")
	}

	for attempt := 0; attempt < updateAttempts; attempt++ {
		n, err := s.repo.Get(ctx, workspaceID, noteID)
		if err != nil {
			return models.Note{}, err
		}
		if !notepolicy.CanEdit(n, editorID) {
			return models.Note{}, faults.AccessDenied("you do not have permission to edit this note")
		}

		flag := in.AllowTeammateEdit
		if flag != nil && !notepolicy.CanToggleTeammateEdit(n, editorID) {
			// Only the author may toggle the flag; for anyone else the
			// field is ignored, not an error.
			flag = nil
		}

		updated, err := s.repo.Update(ctx, workspaceID, noteID, len(n.Versions), in.Title, in.Content, flag)
		if faults.Is(err, faults.KindConflict) {
			continue
		}
		if err != nil {
			return models.Note{}, err
		}

		details := fmt.Sprintf("Updated note %q", updated.Title)
		meta := map[string]any{"note_id": updated.ID.Hex()}
		if aerr := s.activity.Record(ctx, editorID, workspaceID, models.ActionUpdatedNote, details, meta); aerr != nil {
			return updated, faults.Warn(fmt.Errorf("record note update: %w", aerr))
		}
		return updated, nil
	}
	return models.Note{}, faults.Conflict("note is being edited concurrently, try again")
}

// Delete removes a note. The lookup is scoped by author, so attempting to
// delete someone else's note reports KindNotFound rather than
// KindAccessDenied; the two cases are deliberately indistinguishable.
func (s *Service) Delete(ctx context.Context, workspaceID, noteID, requesterID primitive.ObjectID) (models.Note, error) {
	if _, _, err := s.members.RequireMember(ctx, workspaceID, requesterID); err != nil {
		return models.Note{}, err
	}

	deleted, err := s.repo.DeleteByAuthor(ctx, workspaceID, noteID, requesterID)
	if err != nil {
		return models.Note{}, err
	}

	details := fmt.Sprintf("Deleted note %q", deleted.Title)
	meta := map[string]any{"note_id": deleted.ID.Hex()}
	if aerr := s.activity.Record(ctx, requesterID, workspaceID, models.ActionDeletedNote, details, meta); aerr != nil {
		return deleted, faults.Warn(fmt.Errorf("record note deletion: %w", aerr))
	}
	return deleted, nil
}

// Get returns a single note for a workspace member.
func (s *Service) Get(ctx context.Context, workspaceID, noteID, viewerID primitive.ObjectID) (models.Note, error) {
	if _, _, err := s.members.RequireMember(ctx, workspaceID, viewerID); err != nil {
		return models.Note{}, err
	}
	return s.repo.Get(ctx, workspaceID, noteID)
}

// Listing partitions a workspace's notes into the viewer's own and
// everyone else's, each ordered by last edit, newest first.
type Listing struct {
	Mine      []models.Note `json:"my_notes"`
	Teammates []models.Note `json:"teammate_notes"`
}

// List returns the workspace's notes partitioned for viewerID.
func (s *Service) List(ctx context.Context, workspaceID, viewerID primitive.ObjectID) (Listing, error) {
	if _, _, err := s.members.RequireMember(ctx, workspaceID, viewerID); err != nil {
		return Listing{}, err
	}

	all, err := s.repo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return Listing{}, err
	}

	listing := Listing{
		Mine:      []models.Note{},
		Teammates: []models.Note{},
	}
	for _, n := range all {
		if n.AuthorID == viewerID {
			listing.Mine = append(listing.Mine, n)
		} else {
			listing.Teammates = append(listing.Teammates, n)
		}
	}
	return listing, nil
}
