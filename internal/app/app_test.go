package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/history"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/review"
	"github.com/alkime/englishpro/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModel serves both analysis and regeneration. A non-nil gate blocks
// each call until a value is received.
type fakeModel struct {
	mu       sync.Mutex
	result   *analysis.Result
	err      error
	summary  string
	regenErr error
	gate     chan struct{}
	started  chan struct{}
	requests []analysis.Request
	regens   []analysis.RegenerateRequest
}

func (f *fakeModel) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeModel) Analyze(_ context.Context, req analysis.Request) (*analysis.Result, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	r := f.result.Clone()
	return &r, nil
}

func (f *fakeModel) Regenerate(_ context.Context, req analysis.RegenerateRequest) (string, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()

	f.regens = append(f.regens, req)
	if f.regenErr != nil {
		return "", f.regenErr
	}
	return f.summary, nil
}

func scenarioA() *analysis.Result {
	return &analysis.Result{
		Transcript: "I love learning Englando",
		Scores:     analysis.Scores{Accuracy: 70, Fluency: 80, Intonation: 75, Overall: 75},
		Details: []analysis.FeedbackDetail{
			{Word: "Englando", Phonetic: "ˈɪŋ.glɪʃ", Issue: "mispronounced ending", Suggestion: "say /ɪʃ/ clearly"},
		},
		Summary: "Cô nhận xét...",
	}
}

type harness struct {
	ctl      *app.Controller
	model    *fakeModel
	history  *history.Store
	previews *media.Previews
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := 0
	hist := history.New(store.NewMemory(),
		history.WithLogger(logger),
		history.WithIDs(func() string { n++; return fmt.Sprintf("h%d", n) }),
	)
	hist.Load()

	model := &fakeModel{result: scenarioA(), summary: "regenerated"}
	previews := media.NewPreviews()

	return &harness{
		ctl:      app.New(model, model, hist, previews, logger),
		model:    model,
		history:  hist,
		previews: previews,
	}
}

func audio(t *testing.T) *media.Upload {
	t.Helper()
	up, err := media.NewUpload("take.mp3", "audio/mpeg", []byte{0xFF, 0xFB, 0x90})
	require.NoError(t, err)
	return up
}

func TestSubmit_ScenarioA(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.ctl.SelectFile(1, audio(t))
	require.NoError(t, err)
	h.ctl.SetIntendedText("I love learning English")

	res, err := h.ctl.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "I love learning Englando", res.Transcript)

	items := h.history.Items()
	require.Len(t, items, 1)
	assert.Equal(t, *scenarioA(), items[0].Result)
	assert.Equal(t, "I love learning English", items[0].IntendedText)
	assert.Equal(t, media.KindAudio, items[0].MediaType)

	snap := h.ctl.Snapshot()
	assert.Equal(t, []string{"Cô nhận xét..."}, snap.Versions)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, items[0].ID, snap.CurrentID)
	require.NotNil(t, snap.Result)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.Busy)

	require.Len(t, h.model.requests, 1)
	assert.Nil(t, h.model.requests[0].Slot2)
	assert.Equal(t, "I love learning English", h.model.requests[0].IntendedText)
}

func TestSubmit_NoInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.ctl.Submit(context.Background())
	require.ErrorIs(t, err, analysis.ErrNoInput)

	require.NoError(t, h.ctl.SetLink(2, "https://drive.example/2"))
	_, err = h.ctl.Submit(context.Background())
	require.ErrorIs(t, err, analysis.ErrNoInput, "slot 2 alone is not enough")

	assert.Empty(t, h.model.requests)
	assert.Empty(t, h.history.Items())
}

func TestSubmit_TwoSlotsAndDraft(t *testing.T) {
	h := newHarness(t)

	h.ctl.SetDraft(app.Draft{
		IntendedText:     "hello",
		Link1:            "https://drive.example/1",
		Link2:            "https://drive.example/2",
		EditedTranscript: "hello there",
	})

	_, err := h.ctl.Submit(context.Background())
	require.NoError(t, err)

	req := h.model.requests[0]
	assert.Equal(t, "https://drive.example/1", req.Slot1.Link)
	require.NotNil(t, req.Slot2)
	assert.Equal(t, "https://drive.example/2", req.Slot2.Link)
	assert.Equal(t, "hello there", req.EditedTranscript)
}

func TestSubmit_LinksComeFromForm(t *testing.T) {
	h := newHarness(t)
	echoed := scenarioA()
	echoed.SubmissionLink = "https://model.example/echo"
	echoed.SubmissionLink2 = "https://model.example/echo2"
	h.model.result = echoed

	h.ctl.SetDraft(app.Draft{
		Link1: "  https://drive.example/1 ",
		Link2: "https://drive.example/2",
	})

	res, err := h.ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example/1", res.SubmissionLink)
	assert.Equal(t, "https://drive.example/2", res.SubmissionLink2)

	items := h.history.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "https://drive.example/1", items[0].SubmissionLink)
	assert.Equal(t, "https://drive.example/2", items[0].SubmissionLink2)

	_, err = h.ctl.RegenerateFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, h.model.regens, 1)
	assert.Equal(t, "https://drive.example/1", h.model.regens[0].Link1)
	assert.Equal(t, "https://drive.example/2", h.model.regens[0].Link2)
}

func TestSubmit_ScenarioE(t *testing.T) {
	h := newHarness(t)
	h.model.err = &analysis.TransportError{Op: "analyze", Err: errors.New("connection refused")}

	_, err := h.ctl.SelectFile(1, audio(t))
	require.NoError(t, err)
	h.ctl.SetIntendedText("I love learning English")

	_, err = h.ctl.Submit(context.Background())
	require.ErrorIs(t, err, analysis.ErrAnalysisFailed)

	snap := h.ctl.Snapshot()
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Versions)
	assert.Equal(t, app.MsgAnalysisFailed, snap.Error)
	assert.Equal(t, "I love learning English", snap.Draft.IntendedText, "inputs kept for retry")
	assert.Equal(t, "take.mp3", snap.Slot1.Name)
	assert.NotEmpty(t, snap.Slot1.Preview)
	assert.Empty(t, h.history.Items())

	h.model.err = nil
	_, err = h.ctl.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, h.ctl.Snapshot().Error, "a retry clears the error")
}

func TestSubmit_FailureClearsPreviousResult(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctl.SetLink(1, "https://drive.example/1"))

	_, err := h.ctl.Submit(context.Background())
	require.NoError(t, err)

	h.model.err = &analysis.SchemaError{Op: "analyze", Reason: "schema mismatch"}
	_, err = h.ctl.Submit(context.Background())
	require.Error(t, err)

	snap := h.ctl.Snapshot()
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.CurrentID)
	assert.Len(t, h.history.Items(), 1)
}

func TestRegenerateAndNavigate_PersistTracked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.ctl.SetLink(1, "https://drive.example/1"))
	h.ctl.SetIntendedText("I love learning English")
	_, err := h.ctl.Submit(ctx)
	require.NoError(t, err)
	id := h.ctl.Snapshot().CurrentID

	summary, err := h.ctl.RegenerateFeedback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "regenerated", summary)

	item, err := h.history.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "regenerated", item.Result.Summary)

	require.Len(t, h.model.regens, 1)
	assert.Equal(t, "I love learning English", h.model.regens[0].IntendedText)
	assert.Equal(t, "https://drive.example/1", h.model.regens[0].Link1)

	require.NoError(t, h.ctl.SaveSummary("written by hand"))
	require.NoError(t, h.ctl.Navigate(review.Prev))

	snap := h.ctl.Snapshot()
	assert.Equal(t, []string{"Cô nhận xét...", "regenerated", "written by hand"}, snap.Versions)
	assert.Equal(t, 1, snap.Cursor)
	assert.Equal(t, "regenerated", snap.Result.Summary)

	item, err = h.history.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "regenerated", item.Result.Summary)

	assert.ErrorIs(t, h.ctl.SaveSummary("   "), review.ErrEmptySummary)
}

func TestRegenerate_FailureLeavesState(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctl.SetLink(1, "https://drive.example/1"))
	_, err := h.ctl.Submit(context.Background())
	require.NoError(t, err)

	h.model.regenErr = &analysis.TransportError{Op: "regenerate", Err: errors.New("timeout")}

	_, err = h.ctl.RegenerateFeedback(context.Background())
	require.ErrorIs(t, err, analysis.ErrAnalysisFailed)

	snap := h.ctl.Snapshot()
	assert.Equal(t, []string{"Cô nhận xét..."}, snap.Versions)
	assert.Empty(t, snap.Error)
	assert.Equal(t, "Cô nhận xét...", h.history.Items()[0].Result.Summary)
}

func TestRegenerate_NoResult(t *testing.T) {
	h := newHarness(t)

	_, err := h.ctl.RegenerateFeedback(context.Background())
	assert.ErrorIs(t, err, review.ErrNoResult)
	assert.ErrorIs(t, h.ctl.Navigate(review.Next), review.ErrNoResult)
}

func TestSelectHistory_ScenarioD(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	linkOnly := scenarioA()
	linkOnly.SubmissionLink = "https://drive.example/1"
	linkOnly.SubmissionLink2 = "https://drive.example/2"
	h.model.result = linkOnly
	h.ctl.SetDraft(app.Draft{IntendedText: "hi", Link1: "https://drive.example/1", Link2: "https://drive.example/2"})
	_, err := h.ctl.Submit(ctx)
	require.NoError(t, err)
	id := h.ctl.Snapshot().CurrentID

	h.ctl.Reset()
	_, err = h.ctl.SelectFile(1, audio(t))
	require.NoError(t, err)
	require.Equal(t, 1, h.previews.Len())

	require.NoError(t, h.ctl.SelectHistory(id))

	snap := h.ctl.Snapshot()
	assert.Equal(t, id, snap.CurrentID)
	assert.Equal(t, app.ViewMain, snap.View)
	assert.Equal(t, app.SlotView{}, snap.Slot1, "link-only item has no kind, file or preview")
	assert.Equal(t, app.SlotView{}, snap.Slot2)
	assert.Equal(t, "https://drive.example/1", snap.Draft.Link1)
	assert.Equal(t, "https://drive.example/2", snap.Draft.Link2)
	assert.Equal(t, "hi", snap.Draft.IntendedText)
	assert.Equal(t, 0, h.previews.Len(), "previous preview released")

	_, err = h.ctl.RegenerateFeedback(ctx)
	require.NoError(t, err)
	item, err := h.history.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "regenerated", item.Result.Summary, "selected items stay tracked")

	assert.ErrorIs(t, h.ctl.SelectHistory("nope"), history.ErrNotFound)
}

func TestSelectHistory_RestoresKind(t *testing.T) {
	h := newHarness(t)
	video, err := media.NewUpload("take.mp4", "video/mp4", []byte{0, 0, 0, 1})
	require.NoError(t, err)

	_, err = h.ctl.SelectFile(1, video)
	require.NoError(t, err)
	_, err = h.ctl.SelectFile(2, audio(t))
	require.NoError(t, err)
	_, err = h.ctl.Submit(context.Background())
	require.NoError(t, err)
	id := h.ctl.Snapshot().CurrentID

	require.NoError(t, h.ctl.SelectHistory(id))

	snap := h.ctl.Snapshot()
	assert.Equal(t, app.SlotView{Kind: media.KindVideo}, snap.Slot1)
	assert.Equal(t, app.SlotView{}, snap.Slot2, "slot 2 kind is not kept")
}

func TestDeleteHistory(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctl.SetLink(1, "https://drive.example/1"))
	_, err := h.ctl.Submit(context.Background())
	require.NoError(t, err)
	first := h.ctl.Snapshot().CurrentID
	_, err = h.ctl.Submit(context.Background())
	require.NoError(t, err)
	second := h.ctl.Snapshot().CurrentID

	require.NoError(t, h.ctl.DeleteHistory(first))
	snap := h.ctl.Snapshot()
	assert.Equal(t, second, snap.CurrentID, "deleting another item keeps the view")
	assert.NotNil(t, snap.Result)

	require.NoError(t, h.ctl.DeleteHistory(second))
	snap = h.ctl.Snapshot()
	assert.Empty(t, snap.CurrentID)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Draft.Link1, "deleting the viewed item resets")
	assert.Empty(t, snap.History)

	assert.ErrorIs(t, h.ctl.DeleteHistory(second), history.ErrNotFound)
}

func TestSaveSummary_TrackedItemGone(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctl.SetLink(1, "https://drive.example/1"))
	_, err := h.ctl.Submit(context.Background())
	require.NoError(t, err)
	id := h.ctl.Snapshot().CurrentID

	require.NoError(t, h.history.Delete(id))

	require.NoError(t, h.ctl.SaveSummary("written by hand"))
	snap := h.ctl.Snapshot()
	assert.Empty(t, snap.CurrentID, "no longer tracked")
	assert.Equal(t, []string{"Cô nhận xét...", "written by hand"}, snap.Versions)
	assert.Empty(t, h.history.Items())
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctl.SelectFile(1, audio(t))
	require.NoError(t, err)
	_, err = h.ctl.Submit(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.ctl.ShowView(app.ViewHistory))

	h.ctl.Reset()

	snap := h.ctl.Snapshot()
	assert.Equal(t, app.ViewMain, snap.View)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.CurrentID)
	assert.Equal(t, app.SlotView{}, snap.Slot1)
	assert.Equal(t, 0, h.previews.Len())
	assert.Len(t, snap.History, 1, "history is untouched")
}

func TestSelectFile_ReleasesSuperseded(t *testing.T) {
	h := newHarness(t)

	first, err := h.ctl.SelectFile(1, audio(t))
	require.NoError(t, err)
	second, err := h.ctl.SelectFile(1, audio(t))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	_, ok := h.ctl.Preview(first)
	assert.False(t, ok)
	up, ok := h.ctl.Preview(second)
	assert.True(t, ok)
	assert.Equal(t, "take.mp3", up.Name)

	require.NoError(t, h.ctl.ClearSlot(1))
	assert.Equal(t, 0, h.previews.Len())

	_, err = h.ctl.SelectFile(3, audio(t))
	assert.Error(t, err)
	assert.Error(t, h.ctl.ClearSlot(0))
	assert.Error(t, h.ctl.SetLink(3, "x"))
}

func TestShowView(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctl.ShowView(app.ViewHistory))
	assert.Equal(t, app.ViewHistory, h.ctl.Snapshot().View)
	assert.ErrorIs(t, h.ctl.ShowView("settings"), app.ErrUnknownView)

	v, err := app.ParseView("History")
	require.NoError(t, err)
	assert.Equal(t, app.ViewHistory, v)
}

func TestBusyAndSuperseded(t *testing.T) {
	h := newHarness(t)
	h.model.gate = make(chan struct{})
	h.model.started = make(chan struct{})
	require.NoError(t, h.ctl.SetLink(1, "https://drive.example/1"))

	type outcome struct {
		err error
	}
	done := make(chan outcome)
	go func() {
		_, err := h.ctl.Submit(context.Background())
		done <- outcome{err: err}
	}()

	<-h.model.started
	assert.True(t, h.ctl.Snapshot().Busy)

	_, err := h.ctl.Submit(context.Background())
	assert.ErrorIs(t, err, app.ErrBusy)

	h.ctl.Reset()
	h.model.gate <- struct{}{}

	got := <-done
	assert.ErrorIs(t, got.err, app.ErrSuperseded)

	snap := h.ctl.Snapshot()
	assert.False(t, snap.Busy)
	assert.Nil(t, snap.Result)
	assert.Empty(t, h.history.Items(), "discarded results are not saved")
}

func TestRegenerate_SupersededBySelect(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ctl.SetLink(1, "https://drive.example/1"))
	_, err := h.ctl.Submit(context.Background())
	require.NoError(t, err)
	id := h.ctl.Snapshot().CurrentID

	h.model.gate = make(chan struct{})
	h.model.started = make(chan struct{})

	done := make(chan error)
	go func() {
		_, err := h.ctl.RegenerateFeedback(context.Background())
		done <- err
	}()

	<-h.model.started
	_, err = h.ctl.RegenerateFeedback(context.Background())
	assert.ErrorIs(t, err, app.ErrBusy)

	require.NoError(t, h.ctl.SelectHistory(id))
	h.model.gate <- struct{}{}

	assert.ErrorIs(t, <-done, app.ErrSuperseded)
	assert.Equal(t, []string{"Cô nhận xét..."}, h.ctl.Snapshot().Versions)
}
