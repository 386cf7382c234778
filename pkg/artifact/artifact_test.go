package artifact

import (
	"testing"
)

func TestNew(t *testing.T) {
	a := New("some output", "openrouter", "acme/model-1", "a prompt")

	if a.ID == "" {
		t.Error("expected generated id")
	}
	if a.Hash == "" || len(a.Hash) != 16 {
		t.Errorf("hash = %q", a.Hash)
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected creation timestamp")
	}

	// Same content, provider and model hash identically.
	b := New("some output", "openrouter", "acme/model-1", "another prompt")
	if a.Hash != b.Hash {
		t.Errorf("hashes differ: %s vs %s", a.Hash, b.Hash)
	}

	c := New("different output", "openrouter", "acme/model-1", "a prompt")
	if a.Hash == c.Hash {
		t.Error("different content must hash differently")
	}
}

func TestWithMetadata(t *testing.T) {
	a := New("x", "mock", "m", "p")
	b := a.WithMetadata("phase", "review")

	if b.Metadata["phase"] != "review" {
		t.Errorf("metadata not set: %v", b.Metadata)
	}
	if _, ok := a.Metadata["phase"]; ok {
		t.Error("original artifact mutated")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	a := New("stored output", "mock", "mock/model", "prompt")
	path, err := store.Save(a)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if path == "" {
		t.Fatal("expected a path")
	}

	loaded, err := store.Load(a.Hash)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Content != a.Content || loaded.ID != a.ID {
		t.Errorf("round trip mismatch: %+v", loaded)
	}

	hashes, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(hashes) != 1 || hashes[0] != a.Hash {
		t.Errorf("List() = %v", hashes)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if _, err := store.Load("deadbeefdeadbeef"); err == nil {
		t.Fatal("expected error for missing artifact")
	}
	if _, err := store.Load("x"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
