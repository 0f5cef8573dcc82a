package extensions

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quill/internal/logging"
)

func writeArchive(t *testing.T, manifest Manifest, extra map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), manifest.ID+".qext")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writer := zip.NewWriter(file)

	manifestData, err := json.Marshal(manifest)
	if err != nil {
		t.Fatal(err)
	}
	entry, err := writer.Create(manifestName)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := entry.Write(manifestData); err != nil {
		t.Fatal(err)
	}

	for name, content := range extra {
		entry, err := writer.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInstallAndList(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(dir, logging.NewNop())

	archive := writeArchive(t, Manifest{ID: "acme.linter", Version: "1.2.0"}, map[string]string{
		"main.js":          "module.exports = {}",
		"assets/icon.svg":  "<svg/>",
		"assets/theme.css": "body {}",
	})

	ext, err := manager.Install(archive)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if ext.ID != "acme.linter" || ext.Version != "1.2.0" {
		t.Fatalf("unexpected extension: %+v", ext)
	}
	if _, err := os.Stat(filepath.Join(ext.Path, "assets", "icon.svg")); err != nil {
		t.Fatalf("archive content missing: %v", err)
	}

	installed, err := manager.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(installed) != 1 || installed[0].ID != "acme.linter" {
		t.Fatalf("unexpected listing: %+v", installed)
	}
}

func TestInstallRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(dir, logging.NewNop())

	// Build an archive with a traversal entry by hand.
	path := filepath.Join(t.TempDir(), "evil.qext")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writer := zip.NewWriter(file)
	manifestEntry, _ := writer.Create(manifestName)
	_, _ = manifestEntry.Write([]byte(`{"id":"evil.ext","version":"0.1.0"}`))
	evil, _ := writer.Create("../outside.txt")
	_, _ = evil.Write([]byte("escape"))
	_ = writer.Close()
	_ = file.Close()

	if _, err := manager.Install(path); err == nil {
		t.Fatal("expected traversal rejection")
	}
	if _, err := os.Stat(filepath.Join(dir, "..", "outside.txt")); err == nil {
		t.Fatal("traversal entry written outside install dir")
	}
}

func TestInstallRejectsMissingManifest(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(dir, logging.NewNop())

	path := filepath.Join(t.TempDir(), "bare.qext")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	writer := zip.NewWriter(file)
	entry, _ := writer.Create("main.js")
	_, _ = entry.Write([]byte("{}"))
	_ = writer.Close()
	_ = file.Close()

	if _, err := manager.Install(path); err == nil {
		t.Fatal("expected manifest error")
	}
}

func TestUninstallRemovesAllVersions(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(dir, logging.NewNop())

	for _, version := range []string{"1.0.0", "1.1.0"} {
		archive := writeArchive(t, Manifest{ID: "acme.linter", Version: version}, nil)
		if _, err := manager.Install(archive); err != nil {
			t.Fatalf("Install %s: %v", version, err)
		}
	}
	other := writeArchive(t, Manifest{ID: "acme.themes", Version: "2.0.0"}, nil)
	if _, err := manager.Install(other); err != nil {
		t.Fatal(err)
	}

	removed, err := manager.Uninstall("acme.linter")
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed %d, want 2", removed)
	}

	installed, err := manager.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(installed) != 1 || installed[0].ID != "acme.themes" {
		t.Fatalf("unexpected survivors: %+v", installed)
	}
}

func TestUninstallUnknownID(t *testing.T) {
	manager := NewManager(t.TempDir(), logging.NewNop())
	if _, err := manager.Uninstall("nobody.nothing"); !errors.Is(err, ErrNotInstalled) {
		t.Fatalf("expected ErrNotInstalled, got %v", err)
	}
}

func TestInstallSource(t *testing.T) {
	dir := t.TempDir()
	manager := NewManager(dir, logging.NewNop())

	source := t.TempDir()
	manifest := []byte(`{"id":"acme.devtools","version":"0.0.1"}`)
	if err := os.WriteFile(filepath.Join(source, manifestName), manifest, 0o644); err != nil {
		t.Fatal(err)
	}

	ext, err := manager.InstallSource(source)
	if err != nil {
		t.Fatalf("InstallSource: %v", err)
	}
	if filepath.Base(ext.Path) != "acme.devtools-dev" {
		t.Fatalf("unexpected link name: %q", ext.Path)
	}

	installed, err := manager.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(installed) != 1 || installed[0].ID != "acme.devtools" {
		t.Fatalf("linked source not listed: %+v", installed)
	}
}
