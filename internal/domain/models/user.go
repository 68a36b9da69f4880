// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. The password hash is opaque to everything
// except the auth feature, and memberships are not embedded here; the
// workspaces collection is queried to discover a user's workspaces.
type User struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	EmailCI string             `bson:"email_ci" json:"-"` // lowercase/folded, unique

	PasswordHash string `bson:"password_hash" json:"-"`

	LastActive time.Time `bson:"last_active" json:"last_active"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
