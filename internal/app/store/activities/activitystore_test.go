package activitystore_test

import (
	"fmt"
	"testing"
	"time"

	activitystore "github.com/dalemusser/teamnotes/internal/app/store/activities"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"github.com/dalemusser/teamnotes/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Insert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wsID := primitive.NewObjectID()
	err := store.Insert(ctx, models.Activity{
		UserID:      primitive.NewObjectID(),
		WorkspaceID: wsID,
		Action:      models.ActionCreatedNote,
		Details:     "Created note \"Plan\"",
		Metadata:    map[string]any{"note_id": primitive.NewObjectID().Hex()},
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	entries, total, err := store.RecentByWorkspace(ctx, wsID, 1, 10)
	if err != nil {
		t.Fatalf("RecentByWorkspace failed: %v", err)
	}
	if total != 1 || len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (total %d)", len(entries), total)
	}
	e := entries[0]
	if e.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if e.Action != models.ActionCreatedNote {
		t.Errorf("action: got %q", e.Action)
	}
}

func TestStore_RecentByWorkspace_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	wsID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 25; i++ {
		err := store.Insert(ctx, models.Activity{
			UserID:      userID,
			WorkspaceID: wsID,
			Action:      models.ActionUpdatedNote,
			Details:     fmt.Sprintf("edit %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Insert %d failed: %v", i, err)
		}
	}
	// An entry in another workspace must not count.
	err := store.Insert(ctx, models.Activity{
		UserID:      userID,
		WorkspaceID: primitive.NewObjectID(),
		Action:      models.ActionCreatedNote,
		Details:     "elsewhere",
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	page1, total, err := store.RecentByWorkspace(ctx, wsID, 1, 10)
	if err != nil {
		t.Fatalf("RecentByWorkspace failed: %v", err)
	}
	if total != 25 {
		t.Errorf("total: got %d, want 25", total)
	}
	if len(page1) != 10 {
		t.Fatalf("page 1: got %d entries, want 10", len(page1))
	}
	if page1[0].Details != "edit 24" {
		t.Errorf("expected newest first, got %q", page1[0].Details)
	}

	page3, _, err := store.RecentByWorkspace(ctx, wsID, 3, 10)
	if err != nil {
		t.Fatalf("RecentByWorkspace failed: %v", err)
	}
	if len(page3) != 5 {
		t.Errorf("page 3: got %d entries, want 5", len(page3))
	}
	if page3[len(page3)-1].Details != "edit 0" {
		t.Errorf("expected oldest entry last, got %q", page3[len(page3)-1].Details)
	}
}
