// Package tui is the terminal front end of the coach: record a take, wait for
// the analysis and review the feedback.
package tui

import (
	"context"
	"os"
	"strings"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/review"
	"github.com/alkime/englishpro/internal/tui/components/phases"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Coach is the part of app.Controller the TUI drives.
type Coach interface {
	Snapshot() app.Snapshot
	Submit(ctx context.Context) (analysis.Result, error)
	RegenerateFeedback(ctx context.Context) (string, error)
	SaveSummary(text string) error
	Navigate(dir review.Direction) error
}

var _ Coach = (*app.Controller)(nil)

// Config wires a Model to the rest of the program.
type Config struct {
	Context    context.Context //nolint:containedctx // handed to phase commands
	Cancel     context.CancelFunc
	Coach      Coach
	Editor     EditorLauncher
	ScratchDir string
}

// Model runs a sequence of phases under a step header and handles quitting.
type Model struct {
	config Config
	keys   KeyMap
	phases phases.Model
	size   *tea.WindowSizeMsg
}

// NewSession records, analyzes and then reviews.
func NewSession(cfg Config, controls RecordingControls) Model {
	cfg = cfg.withDefaults()

	return newModel(cfg,
		phases.NewPhase("Record", NewRecording(controls)),
		phases.NewPhase("Analyze", NewAnalyzing(cfg.Context, cfg.Coach)),
		phases.NewPhase("Review", NewReview(cfg.Context, cfg.Coach, cfg.Editor, cfg.ScratchDir)),
	)
}

// NewAnalyzeAndReview skips recording, for files and links given on the command line.
func NewAnalyzeAndReview(cfg Config) Model {
	cfg = cfg.withDefaults()

	return newModel(cfg,
		phases.NewPhase("Analyze", NewAnalyzing(cfg.Context, cfg.Coach)),
		phases.NewPhase("Review", NewReview(cfg.Context, cfg.Coach, cfg.Editor, cfg.ScratchDir)),
	)
}

// NewReviewOnly reviews a result that is already loaded, e.g. from history.
func NewReviewOnly(cfg Config) Model {
	cfg = cfg.withDefaults()

	return newModel(cfg,
		phases.NewPhase("Review", NewReview(cfg.Context, cfg.Coach, cfg.Editor, cfg.ScratchDir)),
	)
}

func (c Config) withDefaults() Config {
	if c.Context == nil {
		c.Context = context.Background()
	}
	if c.Editor == nil {
		c.Editor = ExecEditor{}
	}
	if c.ScratchDir == "" {
		c.ScratchDir = os.TempDir()
	}

	return c
}

func newModel(cfg Config, steps ...phases.Phase) Model {
	return Model{
		config: cfg,
		keys:   DefaultKeyMap(),
		phases: phases.New(steps),
	}
}

func (m Model) Init() tea.Cmd {
	return m.phases.Init()
}

func (m Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := teaMsg.(tea.KeyMsg); ok {
		if key.Matches(km, m.keys.ForceQuit) || key.Matches(km, m.keys.Quit) {
			if m.config.Cancel != nil {
				m.config.Cancel()
			}

			return m, tea.Quit
		}
	}

	if wsm, ok := teaMsg.(tea.WindowSizeMsg); ok {
		m.size = &wsm
	}

	before := m.phases.CurrentPhaseName()
	updated, cmd := m.phases.Update(teaMsg)
	m.phases = updated.(phases.Model) //nolint:forcetypeassert // phases.Model always returns phases.Model

	// A phase that becomes current has not seen the terminal size yet.
	if m.size != nil && m.phases.CurrentPhaseName() != before {
		size := *m.size
		cmd = tea.Batch(cmd, func() tea.Msg { return size })
	}

	return m, cmd
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.phases.Steps())
	sb.WriteString("\n\n")
	sb.WriteString(m.phases.View())
	sb.WriteString("\n")

	return sb.String()
}

// Phase returns the name of the phase on screen.
func (m Model) Phase() string {
	return m.phases.CurrentPhaseName()
}
