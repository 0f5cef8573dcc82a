package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, path := range []string{"/work/a.txt", "/work/b.txt", "/work/c.txt"} {
		if err := store.Add(ctx, path, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Path != "/work/c.txt" || entries[1].Path != "/work/b.txt" {
		t.Fatalf("wrong order: %+v", entries)
	}
}

func TestAddDedupesOnPath(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Add(ctx, "/work/a.txt", first); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, "/work/a.txt", first.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("duplicate path stored: %+v", entries)
	}
	if !entries[0].OpenedAt.Equal(first.Add(time.Hour)) {
		t.Fatalf("timestamp not refreshed: %v", entries[0].OpenedAt)
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Fatalf("Path() = %q", store.Path())
	}
}
