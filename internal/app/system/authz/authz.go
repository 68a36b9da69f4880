// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/teamnotes/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the authenticated user's name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is
// malformed, it returns "", NilObjectID, false, so callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		// Malformed user ID in token - fail closed.
		return "", primitive.NilObjectID, false
	}
	return u.Name, userID, true
}
