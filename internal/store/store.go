// Package store is the durable key/value storage behind history and the
// visit counter fallback.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alkime/englishpro/internal/workdir"
)

// KV is string-keyed storage with string values.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Local keeps every key in one JSON document on disk. A document that no
// longer parses is moved aside and storage starts over empty.
type Local struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewLocal opens the storage file under root, creating root if needed.
// The file itself is created on the first Set. A nil logger uses slog.Default.
func NewLocal(root string, logger *slog.Logger) (*Local, error) {
	if err := workdir.Prep(root); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Local{
		path:   filepath.Join(root, workdir.StorageFile),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Path returns the backing file.
func (l *Local) Path() string { return l.path }

// Get returns the value for key and whether it was present.
func (l *Local) Get(key string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.read()
	if err != nil {
		return "", false, err
	}

	v, ok := doc[key]
	return v, ok, nil
}

// Set stores value under key. The document is rewritten through a temp file
// and a rename so readers never see a partial write.
func (l *Local) Set(key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, err := l.read()
	if err != nil {
		return err
	}
	doc[key] = value

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp storage file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}

	return nil
}

func (l *Local) read() (map[string]string, error) {
	raw, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	doc := map[string]string{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return l.quarantine(err)
	}

	return doc, nil
}

// quarantine renames a corrupt document to <path>.corrupt-<ts> so the next
// write starts from an empty one. The bad file is kept for inspection.
func (l *Local) quarantine(cause error) (map[string]string, error) {
	aside := l.path + ".corrupt-" + l.now().Format("20060102-150405")
	if err := os.Rename(l.path, aside); err != nil {
		return nil, fmt.Errorf("storage file %s is corrupt and could not be moved aside: %w",
			l.path, errors.Join(cause, err))
	}

	l.logger.Warn("storage file corrupt, starting empty", "path", l.path, "moved_to", aside, "error", cause)

	return map[string]string{}, nil
}

// Memory is an in-process KV.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}
