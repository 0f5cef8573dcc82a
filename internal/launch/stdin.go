package launch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// StdinIsPiped reports whether standard input carries piped content rather
// than an interactive terminal.
func StdinIsPiped() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// CaptureStdin drains r into a uniquely named file in the user home
// directory and returns its path. The caller removes the file once the
// edit session completes.
func CaptureStdin(r io.Reader) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	path := filepath.Join(home, fmt.Sprintf("quill-stdin-%s.txt", shortID()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create stdin capture file: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("capture stdin: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close stdin capture file: %w", err)
	}
	return path, nil
}

func shortID() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
