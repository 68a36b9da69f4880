// internal/domain/models/workspace.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the part a member plays inside a workspace.
//
// Roles form a closed set; code that branches on a Role should switch
// over all three constants rather than compare strings.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// JoinableRole reports whether r may be assigned to a member joining via
// invite token. The owner role is reserved for the workspace creator.
func (r Role) JoinableRole() bool {
	switch r {
	case RoleEditor, RoleViewer:
		return true
	case RoleOwner:
		return false
	}
	return false
}

// Membership binds a user to a workspace with a role and join time.
// Exactly one entry exists per (workspace, user) pair; the entry for the
// workspace creator has RoleOwner and is never removed by normal flows.
type Membership struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     Role               `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// WorkspaceSettings holds per-workspace joining policy.
type WorkspaceSettings struct {
	AllowPublicJoining bool `bson:"allow_public_joining" json:"allow_public_joining"`
	// DefaultRole is assigned to members joining via invite token.
	// Must be a JoinableRole (editor or viewer).
	DefaultRole Role `bson:"default_role" json:"default_role"`
}

// Workspace is a named collaboration space owning its member list and
// invite token. The embedded Members slice is the single source of truth
// for membership; a user's workspaces are discovered by querying it,
// never by a mirrored list on the user record.
type Workspace struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Name        string `bson:"name" json:"name"`
	NameCI      string `bson:"name_ci" json:"-"` // Case-insensitive for sorting
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Members []Membership       `bson:"members" json:"members"`

	// InviteToken is an opaque credential granting join rights to this
	// workspace. Unique across all workspaces; generated at creation.
	InviteToken string `bson:"invite_token" json:"invite_token"`

	Settings WorkspaceSettings `bson:"settings" json:"settings"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Member returns the membership entry for userID, if any.
func (w Workspace) Member(userID primitive.ObjectID) (Membership, bool) {
	for _, m := range w.Members {
		if m.UserID == userID {
			return m, true
		}
	}
	return Membership{}, false
}

// HasMember reports whether userID holds a membership in this workspace.
func (w Workspace) HasMember(userID primitive.ObjectID) bool {
	_, ok := w.Member(userID)
	return ok
}
