package launch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const markerPollInterval = time.Second

// CreateWaitMarker creates an empty temp file whose deletion by the child
// signals that the edit session is complete.
func CreateWaitMarker() (string, error) {
	path := filepath.Join(os.TempDir(), "quill-wait-"+shortID())
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create wait marker: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close wait marker: %w", err)
	}
	return path, nil
}

// WhenDeleted returns a channel that closes once the file at path no longer
// exists. Polling stops when ctx is canceled.
func WhenDeleted(ctx context.Context, path string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(markerPollInterval)
		defer ticker.Stop()
		for {
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				close(done)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}
