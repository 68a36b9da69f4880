// Package testutil provides shared helpers for integration and handler
// tests: a per-test MongoDB database, fixtures for common documents, and
// in-memory repository fakes for tests that do not need a real database.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	activitystore "github.com/dalemusser/teamnotes/internal/app/store/activities"
	notestore "github.com/dalemusser/teamnotes/internal/app/store/notes"
	userstore "github.com/dalemusser/teamnotes/internal/app/store/users"
	workspacestore "github.com/dalemusser/teamnotes/internal/app/store/workspaces"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestMongoEnv names the environment variable holding the MongoDB URI for
// integration tests. Tests that need a database skip when it is unset.
const TestMongoEnv = "TEAMNOTES_TEST_MONGO_URI"

// TestContext returns a context with a timeout suitable for test database
// operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB connects to the test MongoDB instance and returns a fresh,
// uniquely named database with all application indexes created. The
// database is dropped and the client disconnected when the test ends.
//
// Tests calling this skip automatically when TEAMNOTES_TEST_MONGO_URI is
// not set, so the unit suite stays runnable without a database.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(TestMongoEnv)
	if uri == "" {
		t.Skipf("%s not set; skipping test that requires MongoDB", TestMongoEnv)
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to test MongoDB: %v", err)
	}

	dbName := fmt.Sprintf("teamnotes_test_%s", primitive.NewObjectID().Hex())
	db := client.Database(dbName)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := TestContext()
		defer cleanupCancel()
		if err := db.Drop(cleanupCtx); err != nil {
			t.Logf("failed to drop test database %s: %v", dbName, err)
		}
		if err := client.Disconnect(cleanupCtx); err != nil {
			t.Logf("failed to disconnect test client: %v", err)
		}
	})

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure user indexes: %v", err)
	}
	if err := workspacestore.New(db).EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure workspace indexes: %v", err)
	}
	if err := notestore.New(db).EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure note indexes: %v", err)
	}
	if err := activitystore.New(db).EnsureIndexes(ctx); err != nil {
		t.Fatalf("failed to ensure activity indexes: %v", err)
	}

	return db
}
