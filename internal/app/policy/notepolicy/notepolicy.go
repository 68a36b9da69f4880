// Package notepolicy holds the permission rules for workspace notes.
//
// Authorization rules:
//   - Any workspace member can read notes and create new ones
//   - A note's content and title can be edited by its author, or by any
//     member when the note allows teammate edits
//   - Only the author can toggle the teammate-edit flag
//   - Only the author can delete a note; the workspace owner role grants
//     no override
//
// All functions are pure: they compute rights from the values passed in
// and never touch storage.
package notepolicy

import (
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HasWorkspaceAccess reports whether userID holds a membership in the
// workspace. Every workspace-scoped operation is gated on this.
func HasWorkspaceAccess(ws models.Workspace, userID primitive.ObjectID) bool {
	return ws.HasMember(userID)
}

// CanEdit reports whether userID may change the note's title or content.
func CanEdit(n models.Note, userID primitive.ObjectID) bool {
	return n.AuthorID == userID || n.AllowTeammateEdit
}

// CanToggleTeammateEdit reports whether userID may change the note's
// allow-teammate-edit flag. Only the author can.
func CanToggleTeammateEdit(n models.Note, userID primitive.ObjectID) bool {
	return n.AuthorID == userID
}

// CanDelete reports whether userID may delete the note. Authorship is the
// sole deletion right.
func CanDelete(n models.Note, userID primitive.ObjectID) bool {
	return n.AuthorID == userID
}
