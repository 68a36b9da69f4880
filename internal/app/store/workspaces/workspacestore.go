// internal/app/store/workspaces/workspacestore.go
package workspacestore

import (
	"context"
	"time"

	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists workspaces and their embedded membership lists.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("workspaces")}
}

// Insert creates a new workspace. The invite token must already be set;
// a duplicate token reports KindConflict so the caller can regenerate.
func (s *Store) Insert(ctx context.Context, ws models.Workspace) (models.Workspace, error) {
	now := time.Now().UTC()
	ws.ID = primitive.NewObjectID()
	ws.NameCI = text.Fold(ws.Name)
	ws.CreatedAt = now
	ws.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, ws)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Workspace{}, faults.Conflict("invite token already in use")
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// GetByID retrieves a workspace by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workspace, error) {
	var ws models.Workspace
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ws)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Workspace{}, faults.NotFound("workspace not found")
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// GetByInviteToken retrieves a workspace by its invite token.
func (s *Store) GetByInviteToken(ctx context.Context, token string) (models.Workspace, error) {
	var ws models.Workspace
	err := s.c.FindOne(ctx, bson.M{"invite_token": token}).Decode(&ws)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Workspace{}, faults.NotFound("invalid or expired invite link")
		}
		return models.Workspace{}, err
	}
	return ws, nil
}

// AddMember appends a membership entry for a user who is not yet a member.
// The filter guards against an existing entry for the same user, so the
// check and the append execute as one atomic update; two concurrent joins
// by the same user cannot both succeed.
func (s *Store) AddMember(ctx context.Context, workspaceID primitive.ObjectID, m models.Membership) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":             workspaceID,
			"members.user_id": bson.M{"$ne": m.UserID},
		},
		bson.M{
			"$push": bson.M{"members": m},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the workspace is gone or the user already holds a
		// membership; a second lookup tells them apart.
		err := s.c.FindOne(ctx, bson.M{"_id": workspaceID}).Err()
		if err == mongo.ErrNoDocuments {
			return faults.NotFound("workspace not found")
		}
		if err != nil {
			return err
		}
		return faults.AlreadyMember("you are already a member of this workspace")
	}
	return nil
}

// ListByMember returns all workspaces in which userID holds a membership,
// oldest first.
func (s *Store) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Workspace, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"members.user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var workspaces []models.Workspace
	if err := cur.All(ctx, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// EnsureIndexes creates indexes for the workspaces collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Invite tokens must be globally unique
		{
			Keys:    bson.D{{Key: "invite_token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_workspace_invite_token"),
		},
		// Membership lookup for listing a user's workspaces
		{
			Keys:    bson.D{{Key: "members.user_id", Value: 1}},
			Options: options.Index().SetName("idx_workspace_member"),
		},
		// Case-insensitive name for sorting
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_workspace_name_ci"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
