package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/alkime/englishpro/internal/tui/components/phases"
	"github.com/alkime/englishpro/internal/tui/components/waveform"
	"github.com/alkime/englishpro/internal/tui/style"
	"github.com/alkime/englishpro/pkg/uictl"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
)

// RecordingControls is how the recording phase reads and steers the recorder.
type RecordingControls struct {
	Size        uictl.CappedDial[int64]
	Capture     uictl.Knob // on while samples are being kept
	Levels      uictl.Levels[int16]
	MaxDuration time.Duration
	Finish      func()
}

// RecordingDoneMsg is sent once the take is saved and attached to the form,
// or the recording failed.
type RecordingDoneMsg struct {
	Err error
}

type recordingPhase struct {
	keys      recordingKeyMap
	controls  RecordingControls
	spinner   spinner.Model
	stopwatch stopwatch.Model
	progress  progress.Model
	wave      waveform.Model
	finishing bool
	err       error
}

// NewRecording creates the recording phase. Capture is assumed to be running.
func NewRecording(controls RecordingControls) tea.Model {
	s := spinner.New()
	s.Spinner = spinner.Points

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return &recordingPhase{
		keys:      defaultRecordingKeyMap(),
		controls:  controls,
		spinner:   s,
		stopwatch: stopwatch.NewWithInterval(time.Second),
		progress:  p,
		wave:      waveform.New(controls.Levels, 40, 3),
	}
}

func (r *recordingPhase) Init() tea.Cmd {
	return tea.Batch(r.spinner.Tick, r.stopwatch.Start(), r.wave.Init())
}

func (r *recordingPhase) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := teaMsg.(type) {
	case tea.KeyMsg:
		if r.finishing {
			return r, nil
		}

		switch {
		case key.Matches(msg, r.keys.Toggle):
			r.controls.Capture.Toggle()
			if r.capturing() {
				return r, r.stopwatch.Start()
			}

			return r, r.stopwatch.Stop()

		case key.Matches(msg, r.keys.Finish):
			r.finishing = true
			if r.controls.Finish != nil {
				r.controls.Finish()
			}

			return r, r.stopwatch.Stop()
		}

	case RecordingDoneMsg:
		r.finishing = true
		if msg.Err != nil {
			r.err = msg.Err

			return r, nil
		}

		return r, phases.NextPhaseCmd

	case tea.WindowSizeMsg:
		r.wave = r.wave.SetWidth(min(msg.Width-4, 80))

	case spinner.TickMsg:
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case waveform.TickMsg:
		var cmd tea.Cmd
		r.wave, cmd = r.wave.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := r.progress.Update(msg)
		r.progress = progressModel.(progress.Model) //nolint:forcetypeassert // bubbles library contract
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	r.stopwatch, cmd = r.stopwatch.Update(teaMsg)
	cmds = append(cmds, cmd)

	return r, tea.Batch(cmds...)
}

func (r *recordingPhase) View() string {
	var sb strings.Builder

	switch {
	case r.err != nil:
		sb.WriteString(style.Error.Render("Recording failed: " + r.err.Error()))
		sb.WriteString("\n\n")
		sb.WriteString(style.Help.Render("press q to quit"))

		return sb.String()
	case r.finishing:
		sb.WriteString(r.spinner.View())
		sb.WriteString(" ")
		sb.WriteString(style.Title.Render("Saving"))
	case r.capturing():
		sb.WriteString(r.spinner.View())
		sb.WriteString(" ")
		sb.WriteString(style.Title.Render("Recording"))
	default:
		sb.WriteString(style.Warning.Render("Paused"))
	}

	sb.WriteString(" ")
	sb.WriteString(style.Subtitle.Render(formatElapsed(r.stopwatch.Elapsed(), r.controls.MaxDuration)))
	sb.WriteString("\n\n")

	sb.WriteString(r.wave.View())
	sb.WriteString("\n\n")

	current, maxBytes := r.controls.Size.Cap()
	sb.WriteString(r.progress.ViewAs(uictl.Fraction(r.controls.Size)))
	sb.WriteString("\n")
	sb.WriteString(style.Subtitle.Render(formatBytes(current, maxBytes)))
	sb.WriteString("\n\n")

	sb.WriteString(style.KeyHelp(r.keys.Toggle, "  "))
	sb.WriteString(style.KeyHelp(r.keys.Finish, "  "))
	sb.WriteString(style.KeyHelp(DefaultKeyMap().Quit))

	return sb.String()
}

func (r *recordingPhase) capturing() bool {
	return r.controls.Capture.Read()
}

func formatElapsed(elapsed, limit time.Duration) string {
	elapsed = elapsed.Truncate(time.Second)
	if limit <= 0 {
		return elapsed.String()
	}

	return fmt.Sprintf("%s / %s", elapsed, limit.Truncate(time.Second))
}

func formatBytes(current, maxBytes int64) string {
	currentMB := float64(current) / (1024 * 1024)

	if maxBytes <= 0 {
		return fmt.Sprintf("%.1f MB / unlimited", currentMB)
	}

	maxMB := float64(maxBytes) / (1024 * 1024)
	percent := int(float64(current) / float64(maxBytes) * 100)

	return fmt.Sprintf("%.1f MB / %.1f MB (%d%%)", currentMB, maxMB, percent)
}
