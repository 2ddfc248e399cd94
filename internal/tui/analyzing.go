package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/tui/components/labeledspinner"
	"github.com/alkime/englishpro/internal/tui/components/phases"
	"github.com/alkime/englishpro/internal/tui/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// AnalysisDoneMsg carries the outcome of a submission.
type AnalysisDoneMsg struct {
	Result analysis.Result
	Err    error
}

type analyzingPhase struct {
	ctx     context.Context //nolint:containedctx // bubbletea commands run outside Update
	coach   Coach
	keys    analyzingKeyMap
	spinner labeledspinner.Model
	running bool
	errMsg  string
}

// NewAnalyzing creates the phase that submits the current form and waits.
func NewAnalyzing(ctx context.Context, coach Coach) tea.Model {
	return &analyzingPhase{
		ctx:   ctx,
		coach: coach,
		keys:  defaultAnalyzingKeyMap(),
		spinner: labeledspinner.New(
			spinner.Dot,
			"Analyzing your pronunciation",
			"This usually takes under a minute.",
			"q to quit",
		),
	}
}

func (a *analyzingPhase) Init() tea.Cmd {
	return tea.Batch(a.spinner.Init(), a.submit())
}

func (a *analyzingPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case AnalysisDoneMsg:
		a.running = false
		if msg.Err != nil {
			a.errMsg = failureMessage(a.coach, msg.Err)

			return a, nil
		}

		return a, phases.NextPhaseCmd

	case tea.KeyMsg:
		if !a.running && key.Matches(msg, a.keys.Retry) {
			a.errMsg = ""

			return a, tea.Batch(a.spinner.Init(), a.submit())
		}

	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}

		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)

		return a, cmd
	}

	return a, nil
}

func (a *analyzingPhase) View() string {
	if a.errMsg == "" {
		return a.spinner.View()
	}

	var sb strings.Builder

	sb.WriteString(style.Error.Render(a.errMsg))
	sb.WriteString("\n\n")
	sb.WriteString(style.KeyHelp(a.keys.Retry, "  "))
	sb.WriteString(style.KeyHelp(DefaultKeyMap().Quit))

	return sb.String()
}

func (a *analyzingPhase) submit() tea.Cmd {
	a.running = true
	ctx, coach := a.ctx, a.coach

	return func() tea.Msg {
		r, err := coach.Submit(ctx)

		return AnalysisDoneMsg{Result: r, Err: err}
	}
}

// failureMessage prefers the message the controller shows the user.
func failureMessage(coach Coach, err error) string {
	if msg := coach.Snapshot().Error; msg != "" {
		return msg
	}
	if errors.Is(err, analysis.ErrNoInput) {
		return app.MsgNoInput
	}
	if errors.Is(err, app.ErrBusy) {
		return "Another request is still running."
	}

	return err.Error()
}
