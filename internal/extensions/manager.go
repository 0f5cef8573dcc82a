package extensions

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"quill/internal/logging"
)

const (
	manifestName = "extension.json"
	lockName     = ".quill-extensions.lock"
)

// ErrNotInstalled indicates no installed version matched the extension id.
var ErrNotInstalled = errors.New("extension not installed")

// Manifest is the metadata file every extension archive carries at its root.
type Manifest struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	DisplayName string `json:"displayName,omitempty"`
}

// Extension describes one installed extension directory.
type Extension struct {
	ID      string
	Version string
	Path    string
}

// Manager installs, lists, and removes extensions under a single directory.
// Installs are guarded with a file lock so concurrent launcher invocations
// do not interleave writes.
type Manager struct {
	dir    string
	logger *slog.Logger
}

// NewManager returns a manager rooted at dir.
func NewManager(dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{dir: dir, logger: logger}
}

// List returns installed extensions sorted by id, then version.
func (m *Manager) List() ([]Extension, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read extensions directory: %w", err)
	}

	var installed []Extension
	for _, entry := range entries {
		if !entry.IsDir() && entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		dir := filepath.Join(m.dir, entry.Name())
		manifest, err := readManifest(filepath.Join(dir, manifestName))
		if err != nil {
			m.logger.Debug("skipping directory without manifest",
				logging.String("dir", dir),
				logging.Error(err))
			continue
		}
		installed = append(installed, Extension{
			ID:      manifest.ID,
			Version: manifest.Version,
			Path:    dir,
		})
	}

	sort.Slice(installed, func(i, j int) bool {
		if installed[i].ID != installed[j].ID {
			return installed[i].ID < installed[j].ID
		}
		return installed[i].Version < installed[j].Version
	})
	return installed, nil
}

// Install unpacks a .qext archive into the extensions directory.
func (m *Manager) Install(archivePath string) (Extension, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Extension{}, fmt.Errorf("create extensions directory: %w", err)
	}

	unlock, err := m.acquireLock()
	if err != nil {
		return Extension{}, err
	}
	defer unlock()

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return Extension{}, fmt.Errorf("open extension archive: %w", err)
	}
	defer reader.Close()

	manifest, err := archiveManifest(&reader.Reader)
	if err != nil {
		return Extension{}, err
	}

	target := filepath.Join(m.dir, manifest.ID+"-"+manifest.Version)
	if err := os.RemoveAll(target); err != nil {
		return Extension{}, fmt.Errorf("clear previous install: %w", err)
	}
	if err := extractArchive(&reader.Reader, target); err != nil {
		_ = os.RemoveAll(target)
		return Extension{}, err
	}

	m.logger.Info("extension installed",
		logging.String("id", manifest.ID),
		logging.String("version", manifest.Version))
	return Extension{ID: manifest.ID, Version: manifest.Version, Path: target}, nil
}

// InstallSource links a local development extension directory into the
// extensions directory.
func (m *Manager) InstallSource(sourceDir string) (Extension, error) {
	manifest, err := readManifest(filepath.Join(sourceDir, manifestName))
	if err != nil {
		return Extension{}, fmt.Errorf("source directory is not an extension: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Extension{}, fmt.Errorf("create extensions directory: %w", err)
	}

	unlock, err := m.acquireLock()
	if err != nil {
		return Extension{}, err
	}
	defer unlock()

	target := filepath.Join(m.dir, manifest.ID+"-dev")
	if err := os.RemoveAll(target); err != nil {
		return Extension{}, fmt.Errorf("clear previous source link: %w", err)
	}
	if err := os.Symlink(sourceDir, target); err != nil {
		return Extension{}, fmt.Errorf("link extension source: %w", err)
	}

	m.logger.Info("extension source linked",
		logging.String("id", manifest.ID),
		logging.String("source", sourceDir))
	return Extension{ID: manifest.ID, Version: manifest.Version, Path: target}, nil
}

// Uninstall removes every installed version of the extension id and returns
// how many directories were removed.
func (m *Manager) Uninstall(id string) (int, error) {
	installed, err := m.List()
	if err != nil {
		return 0, err
	}

	unlock, err := m.acquireLock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	removed := 0
	for _, ext := range installed {
		if ext.ID != id {
			continue
		}
		if err := os.RemoveAll(ext.Path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", ext.Path, err)
		}
		removed++
	}
	if removed == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}

	m.logger.Info("extension uninstalled",
		logging.String("id", id),
		logging.Int("versions_removed", removed))
	return removed, nil
}

func (m *Manager) acquireLock() (func(), error) {
	lock := flock.New(filepath.Join(m.dir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire extensions lock: %w", err)
	}
	if !ok {
		return nil, errors.New("extensions directory is locked by another quill process")
	}
	return func() { _ = lock.Unlock() }, nil
}

func readManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if strings.TrimSpace(manifest.ID) == "" || strings.TrimSpace(manifest.Version) == "" {
		return nil, errors.New("manifest missing id or version")
	}
	return &manifest, nil
}

func archiveManifest(reader *zip.Reader) (*Manifest, error) {
	for _, file := range reader.File {
		if file.Name != manifestName {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open manifest: %w", err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		return parseManifest(data)
	}
	return nil, fmt.Errorf("archive has no %s at its root", manifestName)
}

func extractArchive(reader *zip.Reader, target string) error {
	for _, file := range reader.File {
		cleaned := filepath.Clean(file.Name)
		if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
			return fmt.Errorf("archive entry %q escapes the install directory", file.Name)
		}
		dest := filepath.Join(target, cleaned)

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dest, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(dest), err)
		}

		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("open archive entry %s: %w", file.Name, err)
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, file.Mode().Perm()|0o600)
		if err != nil {
			_ = rc.Close()
			return fmt.Errorf("create %s: %w", dest, err)
		}
		_, copyErr := io.Copy(out, rc)
		_ = rc.Close()
		closeErr := out.Close()
		if copyErr != nil {
			return fmt.Errorf("extract %s: %w", file.Name, copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("finish %s: %w", dest, closeErr)
		}
	}
	return nil
}
