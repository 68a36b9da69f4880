package faults_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/teamnotes/internal/domain/faults"
)

func TestIs(t *testing.T) {
	err := faults.NotFound("workspace not found")

	if !faults.Is(err, faults.KindNotFound) {
		t.Error("expected KindNotFound")
	}
	if faults.Is(err, faults.KindValidation) {
		t.Error("did not expect KindValidation")
	}
	if faults.Is(nil, faults.KindNotFound) {
		t.Error("nil error should match no kind")
	}
	if faults.Is(errors.New("plain"), faults.KindNotFound) {
		t.Error("plain error should match no kind")
	}
}

func TestIs_Wrapped(t *testing.T) {
	err := fmt.Errorf("redeem invite: %w", faults.AlreadyMember("already a member"))
	if !faults.Is(err, faults.KindAlreadyMember) {
		t.Error("expected kind to survive wrapping")
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := faults.KindOf(faults.Conflict("lost the race"))
	if !ok || kind != faults.KindConflict {
		t.Errorf("KindOf: got %q, %v", kind, ok)
	}

	if _, ok := faults.KindOf(errors.New("plain")); ok {
		t.Error("expected no kind for plain error")
	}
}

func TestWarn(t *testing.T) {
	if faults.Warn(nil) != nil {
		t.Error("Warn(nil) should be nil")
	}

	base := errors.New("activity append failed")
	w := faults.Warn(base)
	if !faults.IsWarning(w) {
		t.Error("expected IsWarning")
	}
	if faults.IsWarning(base) {
		t.Error("unwrapped error is not a warning")
	}
	if !errors.Is(w, base) {
		t.Error("warning should unwrap to the original error")
	}
}

func TestWarn_PreservesKind(t *testing.T) {
	w := faults.Warn(faults.Validation("bad input"))
	if !faults.IsWarning(w) {
		t.Error("expected IsWarning")
	}
	if !faults.Is(w, faults.KindValidation) {
		t.Error("expected kind to survive the warning wrapper")
	}
}
