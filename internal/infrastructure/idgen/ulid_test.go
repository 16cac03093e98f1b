package idgen

import (
	"testing"
	"time"
)

func TestULIDGeneratorUnique(t *testing.T) {
	g := NewULIDGenerator()
	seen := make(map[string]struct{})

	for i := 0; i < 10000; i++ {
		id := g.Generate()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d generations: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestULIDGeneratorMonotonic(t *testing.T) {
	g := NewULIDGenerator()
	prev := g.Generate()

	for i := 0; i < 1000; i++ {
		next := g.Generate()
		if next <= prev {
			t.Fatalf("expected %s > %s", next, prev)
		}
		prev = next
	}
}

func TestCreatedAt(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewULIDGenerator().Generate()

	at, err := CreatedAt(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if at.Before(before) || at.After(time.Now().Add(time.Second)) {
		t.Fatalf("unexpected creation time %s", at)
	}

	if _, err := CreatedAt("not-a-ulid"); err == nil {
		t.Fatalf("expected error for invalid id")
	}
}
