package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "quill-cli.log")

	logger, err := New(Options{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("launch started", String("binary", "quill-desktop"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "launch started") {
		t.Fatalf("log file missing message: %q", data)
	}
	if !strings.Contains(string(data), `"binary":"quill-desktop"`) {
		t.Fatalf("log file missing attr: %q", data)
	}
}

func TestVerboseForcesDebug(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.log")

	logger, err := New(Options{
		Level:            "warn",
		Format:           "json",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
		Verbose:          true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("stdin capture skipped")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "stdin capture skipped") {
		t.Fatalf("debug record suppressed despite verbose: %q", data)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must stay silent at every level.
	logger.Error("ignored", Error(nil))
}
