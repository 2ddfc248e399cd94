package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/review"
	"github.com/alkime/englishpro/internal/tui/components/labeledspinner"
	"github.com/alkime/englishpro/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 4
	footerHeight = 4
	minViewport  = 5
)

type regenerateDoneMsg struct {
	err error
}

type reviewPhase struct {
	ctx          context.Context //nolint:containedctx // bubbletea commands run outside Update
	coach        Coach
	editor       EditorLauncher
	scratchDir   string
	keys         reviewKeyMap
	viewport     viewport.Model
	spinner      labeledspinner.Model
	regenerating bool
	editPath     string
	notice       string
	errMsg       string
}

// NewReview creates the phase that shows the current result and lets the user
// page through, rewrite and edit its summary. Edits go through a file in
// scratchDir.
func NewReview(ctx context.Context, coach Coach, editor EditorLauncher, scratchDir string) tea.Model {
	r := &reviewPhase{
		ctx:        ctx,
		coach:      coach,
		editor:     editor,
		scratchDir: scratchDir,
		keys:       defaultReviewKeyMap(),
		viewport:   viewport.New(76, 18),
		spinner: labeledspinner.New(
			spinner.Dot,
			"Rewriting the summary",
			"",
			"q to quit",
		),
	}
	r.refresh()

	return r
}

func (r *reviewPhase) Init() tea.Cmd {
	r.refresh()

	return nil
}

func (r *reviewPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		r.viewport.Width = max(msg.Width-4, 20)
		r.viewport.Height = max(msg.Height-headerHeight-footerHeight, minViewport)
		r.refresh()

		return r, nil

	case regenerateDoneMsg:
		r.regenerating = false
		r.setOutcome(msg.err, "New summary added.")

		return r, nil

	case EditorDoneMsg:
		return r, r.finishEdit(msg.Err)

	case spinner.TickMsg:
		if !r.regenerating {
			return r, nil
		}

		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)

		return r, cmd

	case tea.KeyMsg:
		if r.regenerating || r.editPath != "" {
			return r, nil
		}

		switch {
		case key.Matches(msg, r.keys.Prev):
			r.setOutcome(r.coach.Navigate(review.Prev), "")

			return r, nil
		case key.Matches(msg, r.keys.Next):
			r.setOutcome(r.coach.Navigate(review.Next), "")

			return r, nil
		case key.Matches(msg, r.keys.Regenerate):
			return r, r.regenerate()
		case key.Matches(msg, r.keys.Edit):
			return r, r.startEdit()
		}
	}

	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(teaMsg)

	return r, cmd
}

func (r *reviewPhase) View() string {
	if r.regenerating {
		return r.spinner.View()
	}

	snap := r.coach.Snapshot()
	if snap.Result == nil {
		return style.Subtitle.Render("No result yet. Record or analyze something first.") +
			"\n\n" + style.KeyHelp(DefaultKeyMap().Quit)
	}

	var sb strings.Builder

	sb.WriteString(renderScores(snap.Result.Scores))
	sb.WriteString("\n\n")
	sb.WriteString(r.viewport.View())
	sb.WriteString("\n")

	switch {
	case r.errMsg != "":
		sb.WriteString(style.Error.Render(r.errMsg))
	case r.notice != "":
		sb.WriteString(style.Success.Render(r.notice))
	}
	sb.WriteString("\n")

	sb.WriteString(style.KeyHelp(r.keys.Prev, "  "))
	sb.WriteString(style.KeyHelp(r.keys.Next, "\n"))
	sb.WriteString(style.KeyHelp(r.keys.Regenerate, "  "))
	sb.WriteString(style.KeyHelp(r.keys.Edit, "  "))
	sb.WriteString(style.KeyHelp(DefaultKeyMap().Quit))

	return sb.String()
}

// refresh re-renders the viewport from the controller's state.
func (r *reviewPhase) refresh() {
	snap := r.coach.Snapshot()
	if snap.Result == nil {
		r.viewport.SetContent("")
		return
	}

	r.viewport.SetContent(renderResult(*snap.Result, snap.Versions, snap.Cursor, r.viewport.Width))
}

func (r *reviewPhase) setOutcome(err error, notice string) {
	r.notice, r.errMsg = "", ""

	switch {
	case err == nil:
		r.notice = notice
	case errors.Is(err, review.ErrEmptySummary):
		r.errMsg = "The summary cannot be empty."
	case errors.Is(err, app.ErrBusy):
		r.errMsg = "Another request is still running."
	case errors.Is(err, app.ErrSuperseded):
		r.errMsg = "The result changed while rewriting; nothing was saved."
	default:
		r.errMsg = err.Error()
	}

	r.refresh()
}

func (r *reviewPhase) regenerate() tea.Cmd {
	r.regenerating = true
	r.notice, r.errMsg = "", ""
	ctx, coach := r.ctx, r.coach

	return tea.Batch(r.spinner.Init(), func() tea.Msg {
		_, err := coach.RegenerateFeedback(ctx)

		return regenerateDoneMsg{err: err}
	})
}

func (r *reviewPhase) startEdit() tea.Cmd {
	snap := r.coach.Snapshot()
	if snap.Result == nil {
		r.setOutcome(review.ErrNoResult, "")
		return nil
	}

	path := filepath.Join(r.scratchDir, "summary.md")
	//nolint:gosec // scratch file in the user's own data dir
	if err := os.WriteFile(path, []byte(snap.Result.Summary+"\n"), 0o644); err != nil {
		r.setOutcome(fmt.Errorf("failed to prepare summary for editing: %w", err), "")
		return nil
	}

	r.editPath = path

	return r.editor.Launch(path)
}

func (r *reviewPhase) finishEdit(editErr error) tea.Cmd {
	path := r.editPath
	r.editPath = ""

	if path == "" {
		return nil
	}
	defer os.Remove(path)

	if editErr != nil {
		r.setOutcome(fmt.Errorf("editor exited with an error: %w", editErr), "")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.setOutcome(fmt.Errorf("failed to read edited summary: %w", err), "")
		return nil
	}

	text := strings.TrimSpace(string(data))
	if snap := r.coach.Snapshot(); snap.Result != nil && text == strings.TrimSpace(snap.Result.Summary) {
		r.setOutcome(nil, "Summary unchanged.")
		return nil
	}

	r.setOutcome(r.coach.SaveSummary(text), "Edited summary saved.")

	return nil
}

func renderScores(s analysis.Scores) string {
	parts := []string{
		style.Label.Render("Overall ") + style.Score(s.Overall).Render(fmt.Sprint(s.Overall)),
		style.Label.Render("Accuracy ") + style.Score(s.Accuracy).Render(fmt.Sprint(s.Accuracy)),
		style.Label.Render("Fluency ") + style.Score(s.Fluency).Render(fmt.Sprint(s.Fluency)),
		style.Label.Render("Intonation ") + style.Score(s.Intonation).Render(fmt.Sprint(s.Intonation)),
	}

	return strings.Join(parts, "   ")
}

func renderResult(r analysis.Result, versions []string, cursor, width int) string {
	var sb strings.Builder

	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		sb.WriteString(style.Title.Render(title))
		sb.WriteString("\n")
		sb.WriteString(wrapText(body, width))
		sb.WriteString("\n\n")
	}

	section("Transcript", r.Transcript)
	section("Suggested text", r.SuggestedText)
	section("Attempt comparison", r.ComparisonFeedback)

	sb.WriteString(style.Title.Render("Corrections"))
	sb.WriteString("\n")
	if r.Flawless() {
		sb.WriteString(style.Success.Render("Nothing to correct. Well done!"))
		sb.WriteString("\n")
	}
	for _, d := range r.Details {
		line := style.Bullet.Render("• ") + style.Label.Render(d.Word)
		if d.Phonetic != "" {
			line += " " + style.Phonetic.Render(d.Phonetic)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(wrapText("  "+d.Issue, width))
		sb.WriteString("\n")
		sb.WriteString(wrapText("  → "+d.Suggestion, width))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	title := "Summary"
	if len(versions) > 1 {
		title = fmt.Sprintf("Summary (version %d of %d)", cursor+1, len(versions))
	}
	sb.WriteString(style.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(style.Panel.Width(max(width-4, 10)).Render(r.Summary))
	sb.WriteString("\n")

	if links := strings.TrimSpace(r.SubmissionLink + " " + r.SubmissionLink2); links != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Muted.Render(links))
		sb.WriteString("\n")
	}

	return sb.String()
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}
