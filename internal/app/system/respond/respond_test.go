package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/teamnotes/internal/app/system/respond"
	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"go.uber.org/zap"
)

func TestError_KindMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{faults.Validation("bad input"), http.StatusBadRequest},
		{faults.NotFound("gone"), http.StatusNotFound},
		{faults.AccessDenied("no"), http.StatusForbidden},
		{faults.AlreadyMember("again"), http.StatusConflict},
		{faults.Conflict("race"), http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		respond.Error(rec, zap.NewNop(), tc.err)
		if rec.Code != tc.want {
			t.Errorf("Error(%v): got status %d, want %d", tc.err, rec.Code, tc.want)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type: got %q", ct)
		}
	}
}

func TestError_WrappedKindMapping(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, zap.NewNop(), fmt.Errorf("redeem: %w", faults.AlreadyMember("again")))
	if rec.Code != http.StatusConflict {
		t.Errorf("wrapped error: got status %d, want 409", rec.Code)
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, zap.NewNop(), errors.New("mongodb://secret-host connection refused"))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["message"] != "server error" {
		t.Errorf("expected generic message, got %q", body["message"])
	}
}

func TestMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Message(rec, http.StatusCreated, "done")

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["message"] != "done" {
		t.Errorf("message: got %q", body["message"])
	}
}
