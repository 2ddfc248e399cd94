// Package workdir resolves where the coach keeps its durable files:
// the local storage file and microphone recordings.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// StorageFile holds the key/value document that replaces browser localStorage.
	StorageFile = "storage.json"
	recordings  = "recordings"
)

// Root returns the data directory. An explicit override (DATA_DIR) wins;
// otherwise it resolves to:
//
//	$HOME/.englishpro
func Root(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".englishpro"), nil
}

// RecordingPath returns a timestamped MP3 path inside the recordings folder.
func RecordingPath(root string, now time.Time) string {
	return filepath.Join(root, recordings, "attempt-"+now.Format("20060102-150405")+".mp3")
}

// Prep ensures that the given directory exists.
func Prep(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create working directory %s: %w", dir, err)
	}

	return nil
}
