package notes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/teamnotes/internal/app/core/activity"
	corenotes "github.com/dalemusser/teamnotes/internal/app/core/notes"
	"github.com/dalemusser/teamnotes/internal/app/core/registry"
	notesfeature "github.com/dalemusser/teamnotes/internal/app/features/notes"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"github.com/dalemusser/teamnotes/internal/testutil"
	"go.uber.org/zap"
)

type handlerEnv struct {
	handler *notesfeature.Handler
	svc     *corenotes.Service

	ws    models.Workspace
	alice testutil.TestUser
	bob   testutil.TestUser
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	wsRepo := testutil.NewMemWorkspaceRepo()
	noteRepo := testutil.NewMemNoteRepo()
	log := activity.NewLog(testutil.NewMemActivityRepo(), zap.NewNop())
	reg := registry.New(wsRepo, log, zap.NewNop())
	svc := corenotes.NewService(noteRepo, reg, log, zap.NewNop())

	alice := testutil.NewTestUser("Alice", "alice@example.com")
	bob := testutil.NewTestUser("Bob", "bob@example.com")

	ctx := context.Background()
	ws, err := reg.CreateWorkspace(ctx, alice.ObjectID(), "Shared", "")
	if err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}
	if _, err := reg.RedeemInvite(ctx, ws.InviteToken, bob.ObjectID()); err != nil {
		t.Fatalf("RedeemInvite failed: %v", err)
	}

	return &handlerEnv{
		handler: notesfeature.NewHandler(svc, zap.NewNop()),
		svc:     svc,
		ws:      ws,
		alice:   alice,
		bob:     bob,
	}
}

func (e *handlerEnv) request(t *testing.T, user testutil.TestUser, method, body string, params map[string]string) *http.Request {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, "/", strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, "/", nil)
	}
	r = testutil.WithUser(r, user)
	for k, v := range params {
		r = testutil.WithChiURLParam(r, k, v)
	}
	return r
}

func TestHandleCreate(t *testing.T) {
	env := newHandlerEnv(t)

	body := `{"title":"Plan","content":"<p>draft</p><script>alert(1)</script>"}`
	r := env.request(t, env.alice, http.MethodPost, body,
		map[string]string{"workspaceID": env.ws.ID.Hex()})
	rec := httptest.NewRecorder()
	env.handler.HandleCreate(rec, r)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string      `json:"message"`
		Note    models.Note `json:"note"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Note.Title != "Plan" {
		t.Errorf("title: got %q", resp.Note.Title)
	}
	if strings.Contains(resp.Note.Content, "<script") {
		t.Errorf("script survived sanitization: %q", resp.Note.Content)
	}
	if !strings.Contains(resp.Note.Content, "<p>draft</p>") {
		t.Errorf("formatting should survive: %q", resp.Note.Content)
	}
	if len(resp.Note.Versions) != 1 || resp.Note.Versions[0].Version != 1 {
		t.Errorf("expected single version 1, got %+v", resp.Note.Versions)
	}
}

func TestHandleCreate_Unauthenticated(t *testing.T) {
	env := newHandlerEnv(t)

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x"}`))
	r = testutil.WithChiURLParam(r, "workspaceID", env.ws.ID.Hex())
	rec := httptest.NewRecorder()
	env.handler.HandleCreate(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestHandleCreate_NonMember(t *testing.T) {
	env := newHandlerEnv(t)
	stranger := testutil.NewTestUser("Mallory", "mallory@example.com")

	r := env.request(t, stranger, http.MethodPost, `{"title":"x","content":"y"}`,
		map[string]string{"workspaceID": env.ws.ID.Hex()})
	rec := httptest.NewRecorder()
	env.handler.HandleCreate(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestHandleCreate_BadWorkspaceID(t *testing.T) {
	env := newHandlerEnv(t)

	r := env.request(t, env.alice, http.MethodPost, `{"title":"x"}`,
		map[string]string{"workspaceID": "not-a-hex-id"})
	rec := httptest.NewRecorder()
	env.handler.HandleCreate(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleList(t *testing.T) {
	env := newHandlerEnv(t)
	ctx := context.Background()

	if _, err := env.svc.Create(ctx, env.ws.ID, env.alice.ObjectID(), "Mine", "x", true); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := env.svc.Create(ctx, env.ws.ID, env.bob.ObjectID(), "Bob's", "x", true); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := env.request(t, env.alice, http.MethodGet, "",
		map[string]string{"workspaceID": env.ws.ID.Hex()})
	rec := httptest.NewRecorder()
	env.handler.HandleList(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	var listing struct {
		Mine      []models.Note `json:"my_notes"`
		Teammates []models.Note `json:"teammate_notes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(listing.Mine) != 1 || listing.Mine[0].Title != "Mine" {
		t.Errorf("my_notes: %+v", listing.Mine)
	}
	if len(listing.Teammates) != 1 || listing.Teammates[0].Title != "Bob's" {
		t.Errorf("teammate_notes: %+v", listing.Teammates)
	}
}

func TestHandleUpdate_ClosedNoteRejectsTeammate(t *testing.T) {
	env := newHandlerEnv(t)

	n, err := env.svc.Create(context.Background(), env.ws.ID, env.alice.ObjectID(), "Closed", "v1", false)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := env.request(t, env.bob, http.MethodPut, `{"content":"bob edit"}`,
		map[string]string{"workspaceID": env.ws.ID.Hex(), "noteID": n.ID.Hex()})
	rec := httptest.NewRecorder()
	env.handler.HandleUpdate(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func TestHandleDelete_NonAuthorGets404(t *testing.T) {
	env := newHandlerEnv(t)

	n, err := env.svc.Create(context.Background(), env.ws.ID, env.alice.ObjectID(), "Alice's", "v1", true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := env.request(t, env.bob, http.MethodDelete, "",
		map[string]string{"workspaceID": env.ws.ID.Hex(), "noteID": n.ID.Hex()})
	rec := httptest.NewRecorder()
	env.handler.HandleDelete(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}

	// The author succeeds.
	r = env.request(t, env.alice, http.MethodDelete, "",
		map[string]string{"workspaceID": env.ws.ID.Hex(), "noteID": n.ID.Hex()})
	rec = httptest.NewRecorder()
	env.handler.HandleDelete(rec, r)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}
