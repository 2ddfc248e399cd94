// Package review tracks the versions of a result's summary and which one is
// current.
package review

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alkime/englishpro/internal/analysis"
)

var (
	// ErrNoResult is returned by transitions that need a current result.
	ErrNoResult = errors.New("review: no result loaded")
	// ErrEmptySummary rejects blank manual edits.
	ErrEmptySummary = errors.New("review: summary is empty")
)

// Direction is a navigation step through summary versions.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// ParseDirection accepts "prev" or "next".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Prev, Next:
		return d, nil
	default:
		return "", fmt.Errorf("unknown direction %q: want prev or next", s)
	}
}

// PersistFunc is called with the new current result after every transition
// that changes it. It decides whether the result is tracked and saved.
type PersistFunc func(analysis.Result) error

// Session holds one result and its summary history. The current summary is
// always versions[cursor]. Versions are never truncated.
//
// A Session is not safe for concurrent use.
type Session struct {
	current  *analysis.Result
	versions []string
	cursor   int
	persist  PersistFunc
}

// NewSession creates an empty session. A nil persist does nothing.
func NewSession(persist PersistFunc) *Session {
	if persist == nil {
		persist = func(analysis.Result) error { return nil }
	}
	return &Session{persist: persist}
}

// Initialize starts over with result as the only version. It does not
// persist: a fresh result is saved by whoever created it.
func (s *Session) Initialize(result analysis.Result) {
	r := result.Clone()
	s.current = &r
	s.versions = []string{r.Summary}
	s.cursor = 0
}

// Clear drops the current result.
func (s *Session) Clear() {
	s.current = nil
	s.versions = nil
	s.cursor = 0
}

// Regenerate appends a model-written summary and makes it current.
func (s *Session) Regenerate(summary string) error {
	return s.push(summary)
}

// ManualEdit appends a user-written summary and makes it current. Blank text
// is rejected.
func (s *Session) ManualEdit(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptySummary
	}
	return s.push(text)
}

// Prev moves to the previous version. It is a no-op at the first version.
func (s *Session) Prev() error {
	return s.moveTo(s.cursor - 1)
}

// Next moves to the next version. It is a no-op at the last version.
func (s *Session) Next() error {
	return s.moveTo(s.cursor + 1)
}

// Navigate moves one step in dir.
func (s *Session) Navigate(dir Direction) error {
	switch dir {
	case Prev:
		return s.Prev()
	case Next:
		return s.Next()
	default:
		return fmt.Errorf("unknown direction %q", dir)
	}
}

// HasResult reports whether a result is loaded.
func (s *Session) HasResult() bool { return s.current != nil }

// Current returns a copy of the current result.
func (s *Session) Current() (analysis.Result, bool) {
	if s.current == nil {
		return analysis.Result{}, false
	}
	return s.current.Clone(), true
}

// Versions returns a copy of all summary versions, oldest first.
func (s *Session) Versions() []string { return slices.Clone(s.versions) }

// Cursor returns the index of the current version.
func (s *Session) Cursor() int { return s.cursor }

func (s *Session) push(summary string) error {
	if s.current == nil {
		return ErrNoResult
	}

	prevSummary, prevCursor := s.current.Summary, s.cursor

	s.versions = append(s.versions, summary)
	s.cursor = len(s.versions) - 1
	s.current.Summary = summary

	if err := s.persist(s.current.Clone()); err != nil {
		s.versions = s.versions[:len(s.versions)-1]
		s.cursor = prevCursor
		s.current.Summary = prevSummary
		return err
	}

	return nil
}

func (s *Session) moveTo(idx int) error {
	if s.current == nil {
		return ErrNoResult
	}
	if idx < 0 || idx >= len(s.versions) || idx == s.cursor {
		return nil
	}

	prevCursor := s.cursor
	s.cursor = idx
	s.current.Summary = s.versions[idx]

	if err := s.persist(s.current.Clone()); err != nil {
		s.cursor = prevCursor
		s.current.Summary = s.versions[prevCursor]
		return err
	}

	return nil
}
