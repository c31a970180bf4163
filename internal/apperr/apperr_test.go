package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := Conflictf("table %d is already occupied", 3)
	if KindOf(err) != Conflict {
		t.Fatalf("kind = %s, want %s", KindOf(err), Conflict)
	}
	if err.Error() != "table 3 is already occupied" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("issuing invoice: %w", NotFoundf("order %d not found", 9))
	if !IsKind(err, NotFound) {
		t.Fatalf("wrapped not found not detected: %v", err)
	}
	if IsKind(err, Validation) {
		t.Fatal("wrong kind matched")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if kind := KindOf(errors.New("boom")); kind != "" {
		t.Fatalf("plain error kind = %q, want empty", kind)
	}
	if IsKind(nil, Conflict) {
		t.Fatal("nil error matched a kind")
	}
}
