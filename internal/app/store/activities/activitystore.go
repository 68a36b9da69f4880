// internal/app/store/activities/activitystore.go
package activitystore

import (
	"context"
	"time"

	"github.com/dalemusser/teamnotes/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists the append-only activity trail. Entries are never
// updated or deleted here.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activities")}
}

// Insert records a new activity entry.
func (s *Store) Insert(ctx context.Context, a models.Activity) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, a)
	return err
}

// RecentByWorkspace returns one page of a workspace's activities, newest
// first, along with the total count for page-count computation. page is
// 1-based.
func (s *Store) RecentByWorkspace(ctx context.Context, workspaceID primitive.ObjectID, page, pageSize int) ([]models.Activity, int64, error) {
	if page < 1 {
		page = 1
	}
	filter := bson.M{"workspace_id": workspaceID}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(page-1) * int64(pageSize)).
		SetLimit(int64(pageSize))

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var activities []models.Activity
	if err := cur.All(ctx, &activities); err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// EnsureIndexes creates indexes for the activities collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Workspace timeline, newest first
		{
			Keys: bson.D{
				{Key: "workspace_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_workspace_created"),
		},
		// Per-user history
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_activity_user_created"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
