package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/teamnotes/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email.
// Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: "test-hash",
		LastActive:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateWorkspace creates a test workspace owned by ownerID, with the
// owner as its single member and a fresh invite token.
func (f *Fixtures) CreateWorkspace(ctx context.Context, name string, ownerID primitive.ObjectID) models.Workspace {
	f.t.Helper()

	now := time.Now().UTC()
	ws := models.Workspace{
		ID:      primitive.NewObjectID(),
		Name:    name,
		NameCI:  text.Fold(name),
		OwnerID: ownerID,
		Members: []models.Membership{{
			UserID:   ownerID,
			Role:     models.RoleOwner,
			JoinedAt: now,
		}},
		InviteToken: uuid.NewString(),
		Settings: models.WorkspaceSettings{
			AllowPublicJoining: false,
			DefaultRole:        models.RoleEditor,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		f.t.Fatalf("failed to create test workspace: %v", err)
	}

	return ws
}

// AddMember appends a membership to an existing test workspace.
func (f *Fixtures) AddMember(ctx context.Context, ws models.Workspace, userID primitive.ObjectID, role models.Role) models.Membership {
	f.t.Helper()

	m := models.Membership{
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	_, err := f.db.Collection("workspaces").UpdateByID(ctx, ws.ID,
		map[string]any{"$push": map[string]any{"members": m}})
	if err != nil {
		f.t.Fatalf("failed to add test member: %v", err)
	}
	return m
}

// CreateNote creates a test note in the workspace with a single version.
func (f *Fixtures) CreateNote(ctx context.Context, workspaceID, authorID primitive.ObjectID, title, content string) models.Note {
	f.t.Helper()

	now := time.Now().UTC()
	note := models.Note{
		ID:                primitive.NewObjectID(),
		Title:             title,
		Content:           content,
		AuthorID:          authorID,
		WorkspaceID:       workspaceID,
		AllowTeammateEdit: true,
		Versions: []models.Version{{
			Content: content,
			SavedAt: now,
			Version: 1,
		}},
		LastEditedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("notes").InsertOne(ctx, note); err != nil {
		f.t.Fatalf("failed to create test note: %v", err)
	}

	return note
}
