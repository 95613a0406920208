package identifier

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewIDWithoutPrefix(t *testing.T) {
	gen := NewUUIDGenerator()

	id := gen.NewID("")
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a valid uuid, got %q: %v", id, err)
	}
}

func TestNewIDWithPrefix(t *testing.T) {
	gen := NewUUIDGenerator()

	id := gen.NewID("evt")
	if !strings.HasPrefix(id, "evt-") {
		t.Fatalf("expected evt- prefix, got %q", id)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(id, "evt-")); err != nil {
		t.Fatalf("expected uuid after prefix, got %q: %v", id, err)
	}
}

func TestNewIDUnique(t *testing.T) {
	gen := NewUUIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.NewID("")
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
