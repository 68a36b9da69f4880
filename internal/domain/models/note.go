// internal/domain/models/note.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Version is an immutable content snapshot appended on each content write.
// Numbers start at 1 and increase by exactly one per write, with no gaps;
// the versions list length always equals the number of content writes
// performed, including the initial create.
type Version struct {
	Content string    `bson:"content" json:"content"`
	SavedAt time.Time `bson:"saved_at" json:"saved_at"`
	Version int       `bson:"version" json:"version"`
}

// Note is a titled, versioned document inside a workspace. The author is
// fixed at creation; whether teammates may edit is controlled by
// AllowTeammateEdit, which only the author can toggle.
type Note struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`

	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	WorkspaceID primitive.ObjectID `bson:"workspace_id" json:"workspace_id"`

	AllowTeammateEdit bool      `bson:"allow_teammate_edit" json:"allow_teammate_edit"`
	Versions          []Version `bson:"versions" json:"versions"`
	LastEditedAt      time.Time `bson:"last_edited_at" json:"last_edited_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CurrentVersion returns the number of the latest version, or 0 for a
// note with no versions (which should not occur for stored notes).
func (n Note) CurrentVersion() int {
	if len(n.Versions) == 0 {
		return 0
	}
	return n.Versions[len(n.Versions)-1].Version
}
