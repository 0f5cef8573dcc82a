package launch

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestCreateWaitMarker(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	path, err := CreateWaitMarker()
	if err != nil {
		t.Fatalf("CreateWaitMarker: %v", err)
	}
	defer os.Remove(path)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("marker missing: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("marker not empty: %d bytes", info.Size())
	}
}

func TestWhenDeletedFiresOnRemoval(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	path, err := CreateWaitMarker()
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := WhenDeleted(ctx, path)

	select {
	case <-done:
		t.Fatal("fired while marker still exists")
	case <-time.After(100 * time.Millisecond):
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("deletion not observed")
	}
}

func TestWhenDeletedAlreadyGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := WhenDeleted(ctx, "/nonexistent/quill-wait-gone")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("missing file must be observed immediately")
	}
}

func TestCaptureStdin(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	content := "piped content\nline two\n"
	path, err := CaptureStdin(strings.NewReader(content))
	if err != nil {
		t.Fatalf("CaptureStdin: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Fatalf("capture mismatch: %q", data)
	}
	if !strings.Contains(path, "quill-stdin-") {
		t.Fatalf("unexpected capture name %q", path)
	}
}
