// Package app is the application controller. It owns the form state, the
// review session and the id of the history item being viewed, and turns user
// actions into calls on the analysis, review and history packages.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/history"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/review"
)

// User-facing messages.
const (
	MsgNoInput        = "Con ơi, hãy chọn ít nhất 1 video hoặc dán link bài làm nhé! 💜"
	MsgAnalysisFailed = "Dường như có lỗi nhỏ rồi. Con thử lại nhé! 💜"
)

var (
	// ErrBusy is returned while an analysis or regeneration is in flight.
	ErrBusy = errors.New("app: a request is already in progress")
	// ErrSuperseded is returned when the state a call started from was reset
	// or replaced before it finished. Its result is discarded.
	ErrSuperseded = errors.New("app: result discarded, state changed while waiting")
	// ErrUnknownView rejects views other than main and history.
	ErrUnknownView = errors.New("app: unknown view")
)

// View is the top-level screen.
type View string

const (
	ViewMain    View = "main"
	ViewHistory View = "history"
)

// ParseView accepts "main" or "history".
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewMain, ViewHistory:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// Analyzer scores a submission.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error)
}

// FeedbackRegenerator rewrites the summary of a result.
type FeedbackRegenerator interface {
	Regenerate(ctx context.Context, req analysis.RegenerateRequest) (string, error)
}

// Draft is the free-text part of the form.
type Draft struct {
	IntendedText     string `json:"intendedText"`
	Link1            string `json:"link1"`
	Link2            string `json:"link2"`
	EditedTranscript string `json:"editedTranscript"`
}

// Controller is safe for concurrent use. Model calls run without holding the
// lock; at most one is in flight at a time.
type Controller struct {
	analyzer Analyzer
	regen    FeedbackRegenerator
	history  *history.Store
	previews *media.Previews
	logger   *slog.Logger

	mu        sync.Mutex
	view      View
	draft     Draft
	media     media.State
	errMsg    string
	currentID string
	session   *review.Session
	busy      bool
	epoch     uint64
}

// New creates a Controller on the main view with empty state.
func New(
	analyzer Analyzer,
	regen FeedbackRegenerator,
	hist *history.Store,
	previews *media.Previews,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		analyzer: analyzer,
		regen:    regen,
		history:  hist,
		previews: previews,
		logger:   logger,
		view:     ViewMain,
	}
	c.session = review.NewSession(c.persistTracked)

	return c
}

// SetDraft replaces the free-text fields.
func (c *Controller) SetDraft(d Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = d
}

// SetIntendedText sets the sentence the student means to say.
func (c *Controller) SetIntendedText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.IntendedText = text
}

// SetLink sets the external link for slot 1 or 2.
func (c *Controller) SetLink(slot int, link string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch slot {
	case 1:
		c.draft.Link1 = link
	case 2:
		c.draft.Link2 = link
	default:
		return fmt.Errorf("%w: got %d", media.ErrBadSlot, slot)
	}

	return nil
}

// SelectFile puts upload into slot, replacing and releasing whatever was
// there. It returns the new preview reference.
func (c *Controller) SelectFile(slot int, upload *media.Upload) (media.PreviewRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.media.Slot(slot)
	if err != nil {
		return "", err
	}

	c.previews.Release(s.Preview)
	ref := c.previews.Create(upload)
	*s = media.Slot{Upload: upload, Preview: ref, Kind: upload.Kind()}

	c.logger.Debug("media selected", "slot", slot, "kind", s.Kind, "bytes", upload.Size())

	return ref, nil
}

// ClearSlot drops the file in slot and releases its preview.
func (c *Controller) ClearSlot(slot int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.media.Slot(slot)
	if err != nil {
		return err
	}

	c.previews.Release(s.Preview)
	*s = media.Slot{}

	return nil
}

// Preview resolves a preview reference to its upload.
func (c *Controller) Preview(ref media.PreviewRef) (*media.Upload, bool) {
	return c.previews.Open(ref)
}

// Submit analyzes the current form. Slot 1 must have a file or a link. The
// previous result is cleared first; on failure the form is kept for a retry
// and the generic error message is shown.
func (c *Controller) Submit(ctx context.Context) (analysis.Result, error) {
	c.mu.Lock()

	if !c.media.Slot1.Filled(c.draft.Link1) {
		c.mu.Unlock()
		return analysis.Result{}, analysis.ErrNoInput
	}
	if c.busy {
		c.mu.Unlock()
		return analysis.Result{}, ErrBusy
	}

	c.busy = true
	c.errMsg = ""
	c.session.Clear()
	c.currentID = ""
	c.epoch++
	epoch := c.epoch

	req := c.requestLocked()
	mediaState := c.media
	intended := c.draft.IntendedText

	c.mu.Unlock()

	c.logger.Info("analysis started", "two_attempts", req.Slot2 != nil)
	result, err := c.analyzer.Analyze(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false

	if epoch != c.epoch {
		c.logger.Info("analysis result discarded", "reason", "state changed")
		return analysis.Result{}, ErrSuperseded
	}

	if err != nil {
		c.errMsg = MsgAnalysisFailed
		c.logger.Error("analysis failed", "kind", analysis.ErrorKind(err), "error", err)
		return analysis.Result{}, err
	}

	final := result.WithLinks(req)

	id, err := c.history.Append(final, mediaState, intended)
	if err != nil {
		c.logger.Error("failed to save analysis to history", "error", err)
	}

	c.session.Initialize(final)
	c.currentID = id
	c.view = ViewMain

	return final.Clone(), nil
}

// RegenerateFeedback asks the model for a new summary and appends it as a
// new version. On failure nothing changes.
func (c *Controller) RegenerateFeedback(ctx context.Context) (string, error) {
	c.mu.Lock()

	current, ok := c.session.Current()
	if !ok {
		c.mu.Unlock()
		return "", review.ErrNoResult
	}
	if c.busy {
		c.mu.Unlock()
		return "", ErrBusy
	}

	c.busy = true
	epoch := c.epoch
	req := analysis.RegenerateRequestFor(current, c.draft.IntendedText)

	c.mu.Unlock()

	summary, err := c.regen.Regenerate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.busy = false

	if epoch != c.epoch {
		return "", ErrSuperseded
	}
	if err != nil {
		return "", err
	}

	if err := c.session.Regenerate(summary); err != nil {
		return "", err
	}

	return summary, nil
}

// SaveSummary stores a hand-written summary as a new version.
func (c *Controller) SaveSummary(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.ManualEdit(text)
}

// Navigate moves through summary versions.
func (c *Controller) Navigate(dir review.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Navigate(dir)
}

// SelectHistory shows a saved item. Its media comes back as kinds only, so
// there is nothing to preview. The item becomes the tracked result.
func (c *Controller) SelectHistory(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	restored, err := c.history.Select(id)
	if err != nil {
		return err
	}

	c.previews.Release(c.media.Previews()...)
	c.media = restored.Media
	c.draft = Draft{
		IntendedText: restored.IntendedText,
		Link1:        restored.Link1,
		Link2:        restored.Link2,
	}
	c.session.Initialize(restored.Result)
	c.currentID = id
	c.errMsg = ""
	c.view = ViewMain
	c.epoch++

	return nil
}

// DeleteHistory removes a saved item. Deleting the item being viewed resets
// the form.
func (c *Controller) DeleteHistory(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.history.Get(id); err != nil {
		return err
	}
	if err := c.history.Delete(id); err != nil {
		return err
	}

	if id == c.currentID {
		c.resetLocked()
	}

	return nil
}

// ShowView switches the top-level screen.
func (c *Controller) ShowView(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.view = v

	return nil
}

// Reset clears the form, the result and the tracked id. History is not
// touched.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.previews.Release(c.media.Previews()...)
	c.media = media.State{}
	c.draft = Draft{}
	c.session.Clear()
	c.currentID = ""
	c.errMsg = ""
	c.view = ViewMain
	c.epoch++
}

// requestLocked builds an analysis request from the form.
func (c *Controller) requestLocked() analysis.Request {
	req := analysis.Request{
		Slot1:            analysis.Input{Upload: c.media.Slot1.Upload, Link: c.draft.Link1},
		IntendedText:     c.draft.IntendedText,
		EditedTranscript: c.draft.EditedTranscript,
	}
	if c.media.Slot2.Filled(c.draft.Link2) {
		req.Slot2 = &analysis.Input{Upload: c.media.Slot2.Upload, Link: c.draft.Link2}
	}
	return req
}

// persistTracked saves summary changes for results that came from history.
// It runs with c.mu held.
func (c *Controller) persistTracked(r analysis.Result) error {
	if c.currentID == "" {
		return nil
	}

	if _, err := c.history.Get(c.currentID); errors.Is(err, history.ErrNotFound) {
		c.logger.Warn("tracked history item is gone, no longer saving", "id", c.currentID)
		c.currentID = ""
		return nil
	}

	return c.history.Update(c.currentID, r)
}
