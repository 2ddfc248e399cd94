package tui_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/history"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/store"
	"github.com/alkime/englishpro/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 50 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

func (o outputChecker) checkString(t *testing.T, tm *teatest.TestModel, substr string) {
	t.Helper()
	o.checkStrings(t, tm, substr)
}

// checkStrings waits until every substr has been drawn. Output read here is
// consumed, so strings drawn in the same frame must be checked together.
func (o outputChecker) checkStrings(t *testing.T, tm *teatest.TestModel, substrs ...string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(buf []byte) bool {
		for _, s := range substrs {
			if !bytes.Contains(buf, []byte(s)) {
				return false
			}
		}
		return true
	},
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

// fakeModel answers analysis and regeneration calls from queues.
type fakeModel struct {
	mu        sync.Mutex
	results   []error
	summaries []string
}

func (f *fakeModel) Analyze(context.Context, analysis.Request) (*analysis.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.results) > 0 {
		err := f.results[0]
		f.results = f.results[1:]
		if err != nil {
			return nil, err
		}
	}

	r := sampleResult()
	return &r, nil
}

func (f *fakeModel) Regenerate(context.Context, analysis.RegenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.summaries) == 0 {
		return "", errors.New("no more summaries")
	}
	s := f.summaries[0]
	f.summaries = f.summaries[1:]
	return s, nil
}

func sampleResult() analysis.Result {
	return analysis.Result{
		Transcript: "I think this is a nice day",
		Scores:     analysis.Scores{Accuracy: 80, Fluency: 90, Intonation: 70, Overall: 82},
		Details: []analysis.FeedbackDetail{{
			Word:       "think",
			Phonetic:   "/θɪŋk/",
			Issue:      "th sounded like t",
			Suggestion: "put the tongue between the teeth",
		}},
		Summary:        "Good job overall.",
		SubmissionLink: "https://example.com/take1",
	}
}

func newController(t *testing.T, model *fakeModel) *app.Controller {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	hist := history.New(store.NewMemory(), history.WithLogger(logger))

	return app.New(model, model, hist, media.NewPreviews(), logger)
}

// scriptedEditor replaces the file contents instead of opening an editor.
type scriptedEditor struct {
	text string
	err  error
}

func (e scriptedEditor) Launch(path string) tea.Cmd {
	return func() tea.Msg {
		if e.err != nil {
			return tui.EditorDoneMsg{Err: e.err}
		}
		if err := os.WriteFile(path, []byte(e.text), 0o600); err != nil {
			return tui.EditorDoneMsg{Err: err}
		}
		return tui.EditorDoneMsg{}
	}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func quit(t *testing.T, tm *teatest.TestModel) tui.Model {
	t.Helper()

	tm.Send(keyPress("q"))
	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second))

	m, ok := final.(tui.Model)
	require.True(t, ok)
	return m
}
