// internal/app/core/registry/registry.go

// Package registry owns workspace entities and their membership lists: it
// creates workspaces, issues and redeems invite tokens, and answers
// membership questions for every gated operation.
package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// WorkspaceRepo is the storage contract for workspaces. AddMember must be
// atomic per workspace: when the user already holds a membership the call
// reports KindAlreadyMember and changes nothing, even under concurrent
// redemption of the same token.
type WorkspaceRepo interface {
	Insert(ctx context.Context, ws models.Workspace) (models.Workspace, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Workspace, error)
	GetByInviteToken(ctx context.Context, token string) (models.Workspace, error)
	AddMember(ctx context.Context, workspaceID primitive.ObjectID, m models.Membership) error
	ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error)
}

// ActivityRecorder appends one audit entry per successful mutation.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, workspaceID primitive.ObjectID, action models.Action, details string, metadata map[string]any) error
}

// tokenAttempts bounds the invite-token regeneration loop. UUID collisions
// are vanishingly rare; if this many inserts hit a duplicate token,
// something else is wrong and the conflict surfaces.
const tokenAttempts = 5

// Registry is the workspace and membership service.
type Registry struct {
	repo     WorkspaceRepo
	activity ActivityRecorder
	log      *zap.Logger
}

func New(repo WorkspaceRepo, activity ActivityRecorder, logger *zap.Logger) *Registry {
	return &Registry{repo: repo, activity: activity, log: logger}
}

func newInviteToken() string {
	return uuid.NewString()
}

// CreateWorkspace creates a workspace owned by ownerID, with the creator
// as its single owner-role member and a fresh invite token. A returned
// warning (faults.IsWarning) means the workspace was created but the
// activity append failed.
func (g *Registry) CreateWorkspace(ctx context.Context, ownerID primitive.ObjectID, name, description string) (models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Workspace{}, faults.Validation("workspace name is required")
	}

	ws := models.Workspace{
		Name:        name,
		Description: strings.TrimSpace(description),
		OwnerID:     ownerID,
		Members: []models.Membership{{
			UserID:   ownerID,
			Role:     models.RoleOwner,
			JoinedAt: time.Now().UTC(),
		}},
		Settings: models.WorkspaceSettings{
			AllowPublicJoining: false,
			DefaultRole:        models.RoleEditor,
		},
	}

	var created models.Workspace
	var err error
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		ws.InviteToken = newInviteToken()
		created, err = g.repo.Insert(ctx, ws)
		if err == nil {
			break
		}
		if !faults.Is(err, faults.KindConflict) {
			return models.Workspace{}, err
		}
		g.log.Warn("invite token collision, regenerating",
			zap.Int("attempt", attempt+1),
			zap.String("workspace_name", name),
		)
	}
	if err != nil {
		return models.Workspace{}, err
	}

	details := fmt.Sprintf("Created workspace %q", created.Name)
	if aerr := g.activity.Record(ctx, ownerID, created.ID, models.ActionJoinedWorkspace, details, nil); aerr != nil {
		return created, faults.Warn(fmt.Errorf("record workspace creation: %w", aerr))
	}
	return created, nil
}

// RedeemInvite joins userID to the workspace holding the given invite
// token, with the workspace's default role. An unknown token reports
// KindNotFound; an existing membership reports KindAlreadyMember and
// leaves the membership count at one.
func (g *Registry) RedeemInvite(ctx context.Context, token string, userID primitive.ObjectID) (models.Workspace, error) {
	ws, err := g.repo.GetByInviteToken(ctx, token)
	if err != nil {
		return models.Workspace{}, err
	}

	role := ws.Settings.DefaultRole
	if !role.JoinableRole() {
		role = models.RoleEditor
	}
	m := models.Membership{
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := g.repo.AddMember(ctx, ws.ID, m); err != nil {
		return models.Workspace{}, err
	}
	ws.Members = append(ws.Members, m)

	details := fmt.Sprintf("Joined workspace %q", ws.Name)
	if aerr := g.activity.Record(ctx, userID, ws.ID, models.ActionJoinedWorkspace, details, nil); aerr != nil {
		return ws, faults.Warn(fmt.Errorf("record workspace join: %w", aerr))
	}
	return ws, nil
}

// Membership returns userID's membership in the workspace, if any.
// A missing workspace reports KindNotFound.
func (g *Registry) Membership(ctx context.Context, workspaceID, userID primitive.ObjectID) (models.Membership, bool, error) {
	ws, err := g.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return models.Membership{}, false, err
	}
	m, ok := ws.Member(userID)
	return m, ok, nil
}

// RequireMember is the access gate for workspace-scoped operations: it
// returns the workspace together with userID's membership, or
// KindAccessDenied when the user holds none.
func (g *Registry) RequireMember(ctx context.Context, workspaceID, userID primitive.ObjectID) (models.Workspace, models.Membership, error) {
	ws, err := g.repo.GetByID(ctx, workspaceID)
	if err != nil {
		return models.Workspace{}, models.Membership{}, err
	}
	m, ok := ws.Member(userID)
	if !ok {
		return models.Workspace{}, models.Membership{}, faults.AccessDenied("access denied to this workspace")
	}
	return ws, m, nil
}

// Summary is a workspace annotated with the listing user's own role and
// join time.
type Summary struct {
	models.Workspace
	UserRole models.Role `json:"user_role"`
	JoinedAt time.Time   `json:"user_joined_at"`
}

// ListWorkspacesFor returns every workspace in which userID holds a
// membership. The result is computed by querying the workspaces' member
// lists; no mirrored per-user list exists.
func (g *Registry) ListWorkspacesFor(ctx context.Context, userID primitive.ObjectID) ([]Summary, error) {
	workspaces, err := g.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(workspaces))
	for _, ws := range workspaces {
		m, ok := ws.Member(userID)
		if !ok {
			// The query matched on membership; a missing entry means the
			// store and query disagree.
			continue
		}
		summaries = append(summaries, Summary{
			Workspace: ws,
			UserRole:  m.Role,
			JoinedAt:  m.JoinedAt,
		})
	}
	return summaries, nil
}
