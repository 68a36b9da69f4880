// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action classifies a workspace activity entry.
type Action string

const (
	ActionJoinedWorkspace Action = "joined_workspace"
	ActionCreatedNote     Action = "created_note"
	ActionUpdatedNote     Action = "updated_note"
	ActionDeletedNote     Action = "deleted_note"
	ActionInvitedMember   Action = "invited_member"
	ActionLeftWorkspace   Action = "left_workspace"
)

// Actions is the canonical list of defined activity actions.
var Actions = []Action{
	ActionJoinedWorkspace,
	ActionCreatedNote,
	ActionUpdatedNote,
	ActionDeletedNote,
	ActionInvitedMember,
	ActionLeftWorkspace,
}

// Valid reports whether a is one of the defined actions.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// Activity is an immutable audit record of a membership or note event.
// Entries reference their workspace and user by id only; deleting the
// referenced entity does not delete history.
type Activity struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`

	Action  Action `bson:"action" json:"action"`
	Details string `bson:"details" json:"details"`

	// Metadata carries opaque event context, e.g. the note id for note
	// actions. Never interpreted by the core.
	Metadata map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
