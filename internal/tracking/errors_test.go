package tracking

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", storeError("save location", errTrack))
	if !IsKind(wrapped, KindStore) {
		t.Fatalf("expected store kind through wrapping")
	}
	if !errors.Is(wrapped, errTrack) {
		t.Fatalf("expected cause to be reachable")
	}
	if got := wrapped.Error(); got != "handler: save location: track error" {
		t.Fatalf("unexpected message %q", got)
	}
	if KindOf(errTrack) != 0 {
		t.Fatalf("plain errors have no kind")
	}
	if noActiveSessionError().Error() != "No active session found" {
		t.Fatalf("unexpected message")
	}
	if KindConflict.String() != "conflict" || Kind(99).String() != "unknown" {
		t.Fatalf("unexpected kind names")
	}
}

func TestAsTrackingError(t *testing.T) {
	if !IsKind(asTrackingError("op", validationError("bad")), KindValidation) {
		t.Fatalf("tracking errors must pass through")
	}
	if !IsKind(asTrackingError("op", errTrack), KindStore) {
		t.Fatalf("foreign errors are store errors")
	}
}
