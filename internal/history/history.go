// Package history keeps the most recent analyses in durable storage.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/store"
	"github.com/alkime/englishpro/pkg/collections"
	"github.com/google/uuid"
)

const (
	// Key is the storage key holding the JSON-encoded item list.
	Key = "english_pro_history"
	// DefaultCapacity is the number of items kept.
	DefaultCapacity = 10
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("history: item not found")

// Item is one saved analysis. Only the media kind of slot 1 is kept; file
// bytes and previews never reach storage.
type Item struct {
	ID              string          `json:"id"`
	Timestamp       int64           `json:"timestamp"`
	Result          analysis.Result `json:"result"`
	IntendedText    string          `json:"intendedText"`
	MediaType       media.Kind      `json:"mediaType,omitempty"`
	SubmissionLink  string          `json:"submissionLink,omitempty"`
	SubmissionLink2 string          `json:"submissionLink2,omitempty"`
}

// Restored is the viewable state rebuilt from an item. Media has kinds only.
type Restored struct {
	Result       analysis.Result
	IntendedText string
	Media        media.State
	Link1        string
	Link2        string
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity overrides DefaultCapacity. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock sets the time source for item timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs sets the id generator.
func WithIDs(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store is the ordered, capacity-bounded history, most recent first.
// Every mutation is written to storage before it returns.
type Store struct {
	mu       sync.Mutex
	kv       store.KV
	items    []Item
	capacity int
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
}

// New creates a Store over kv. Call Load to read what is already saved.
func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		capacity: DefaultCapacity,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads saved items. Unreadable or malformed data yields an empty
// history and a warning; it never fails.
func (s *Store) Load() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil

	raw, ok, err := s.kv.Get(Key)
	switch {
	case err != nil:
		s.logger.Warn("history unreadable, starting empty", "error", err)
	case !ok || strings.TrimSpace(raw) == "":
	default:
		var items []Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.logger.Warn("history malformed, starting empty", "error", err)
			break
		}
		for i := range items {
			items[i].Result = items[i].Result.Clone()
		}
		s.items = collections.Head(items, s.capacity)
	}

	s.logger.Debug("history loaded", "items", len(s.items))

	return s.snapshot()
}

// Items returns a copy of the current list.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Append saves a new result at the front and evicts the oldest items beyond
// capacity. It returns the new item's id.
func (s *Store) Append(result analysis.Result, state media.State, intendedText string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{
		ID:              s.newID(),
		Timestamp:       s.now().UnixMilli(),
		Result:          result.Clone(),
		IntendedText:    intendedText,
		MediaType:       state.Projection().Slot1.Kind,
		SubmissionLink:  result.SubmissionLink,
		SubmissionLink2: result.SubmissionLink2,
	}

	next := collections.Head(append([]Item{item}, s.items...), s.capacity)

	if err := s.commit(next); err != nil {
		return "", err
	}

	s.logger.Info("history item saved", "id", item.ID, "items", len(next))

	return item.ID, nil
}

// Delete removes the item with id. An unknown id is a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(id) < 0 {
		s.logger.Debug("history delete: no such item", "id", id)
		return nil
	}

	return s.commit(collections.Filter(s.items, func(it Item) bool { return it.ID != id }))
}

// Update replaces the result of item id, keeping its id, timestamp and
// other fields. An unknown id is a no-op.
func (s *Store) Update(id string, result analysis.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		s.logger.Debug("history update: no such item", "id", id)
		return nil
	}

	next := slices.Clone(s.items)
	next[idx].Result = result.Clone()

	return s.commit(next)
}

// Get returns the item with id.
func (s *Store) Get(id string) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	item := s.items[idx]
	item.Result = item.Result.Clone()

	return item, nil
}

// Select rebuilds viewable state from item id. The media state carries the
// saved kind for slot 1 and nothing else.
func (s *Store) Select(id string) (Restored, error) {
	item, err := s.Get(id)
	if err != nil {
		return Restored{}, err
	}

	return Restored{
		Result:       item.Result,
		IntendedText: item.IntendedText,
		Media:        media.State{Slot1: media.Slot{Kind: item.MediaType}},
		Link1:        item.SubmissionLink,
		Link2:        item.SubmissionLink2,
	}, nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
}

// commit writes next to storage and only then makes it current.
func (s *Store) commit(next []Item) error {
	if next == nil {
		next = []Item{}
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.kv.Set(Key, string(raw)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	s.items = next

	return nil
}

func (s *Store) snapshot() []Item {
	return collections.Apply(s.items, func(it Item) Item {
		it.Result = it.Result.Clone()
		return it
	})
}
