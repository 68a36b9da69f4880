// internal/app/store/notes/notestore.go
package notestore

import (
	"context"
	"time"

	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists notes and their embedded version lists.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notes")}
}

// Insert creates a new note. The caller supplies the initial version;
// timestamps and the ID are assigned here.
func (s *Store) Insert(ctx context.Context, n models.Note) (models.Note, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.LastEditedAt.IsZero() {
		n.LastEditedAt = now
	}
	_, err := s.c.InsertOne(ctx, n)
	if err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// Get retrieves a note scoped to its workspace.
func (s *Store) Get(ctx context.Context, workspaceID, noteID primitive.ObjectID) (models.Note, error) {
	var n models.Note
	err := s.c.FindOne(ctx, bson.M{"_id": noteID, "workspace_id": workspaceID}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Note{}, faults.NotFound("note not found")
		}
		return models.Note{}, err
	}
	return n, nil
}

// Update applies field changes to a note, appending a new version when
// content is supplied. The filter pins the current length of the version
// list, so a concurrent writer who appended first makes this call miss;
// that case reports KindConflict and the caller re-reads and retries.
// Version numbers therefore stay gapless: the appended version is always
// expectVersions+1.
func (s *Store) Update(ctx context.Context, workspaceID, noteID primitive.ObjectID, expectVersions int, title, content *string, allowTeammateEdit *bool) (models.Note, error) {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	update := bson.M{"$set": set}

	if title != nil {
		set["title"] = *title
	}
	if allowTeammateEdit != nil {
		set["allow_teammate_edit"] = *allowTeammateEdit
	}
	if content != nil {
		set["content"] = *content
		set["last_edited_at"] = now
		update["$push"] = bson.M{"versions": models.Version{
			Content: *content,
			SavedAt: now,
			Version: expectVersions + 1,
		}}
	}

	filter := bson.M{
		"_id":          noteID,
		"workspace_id": workspaceID,
		"versions":     bson.M{"$size": expectVersions},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Note
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return updated, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Note{}, err
	}

	// Missed the filter: the note is gone or its version list moved.
	err = s.c.FindOne(ctx, bson.M{"_id": noteID, "workspace_id": workspaceID}).Err()
	if err == mongo.ErrNoDocuments {
		return models.Note{}, faults.NotFound("note not found")
	}
	if err != nil {
		return models.Note{}, err
	}
	return models.Note{}, faults.Conflict("note was modified concurrently")
}

// DeleteByAuthor removes a note only when requesterID authored it. The
// author-scoped filter makes a non-author's delete indistinguishable from
// a missing note; both report KindNotFound.
func (s *Store) DeleteByAuthor(ctx context.Context, workspaceID, noteID, authorID primitive.ObjectID) (models.Note, error) {
	var n models.Note
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"_id":          noteID,
		"workspace_id": workspaceID,
		"author_id":    authorID,
	}).Decode(&n)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Note{}, faults.NotFound("note not found or access denied")
		}
		return models.Note{}, err
	}
	return n, nil
}

// ListByWorkspace returns all notes in a workspace, most recently edited
// first.
func (s *Store) ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_edited_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"workspace_id": workspaceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// EnsureIndexes creates indexes for the notes collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Workspace listing ordered by last edit
		{
			Keys: bson.D{
				{Key: "workspace_id", Value: 1},
				{Key: "last_edited_at", Value: -1},
			},
			Options: options.Index().SetName("idx_note_workspace_edited"),
		},
		// Author partition within a workspace
		{
			Keys: bson.D{
				{Key: "workspace_id", Value: 1},
				{Key: "author_id", Value: 1},
			},
			Options: options.Index().SetName("idx_note_workspace_author"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}
