// Package waveform draws recent microphone amplitude as rows of block characters.
package waveform

import (
	"math"
	"strings"
	"time"

	"github.com/alkime/englishpro/internal/tui/style"
	"github.com/alkime/englishpro/pkg/uictl"
	tea "github.com/charmbracelet/bubbletea"
)

// Eighths of a cell, empty through full.
var blocks = []rune(" ▁▂▃▄▅▆▇█")

const refresh = 50 * time.Millisecond

// TickMsg triggers a redraw.
type TickMsg struct{}

// Model renders the samples exposed by a Levels control, oldest on the left.
type Model struct {
	levels uictl.Levels[int16]
	width  int
	height int
}

// New returns a waveform width columns wide and height rows tall.
// A height below one is treated as one.
func New(levels uictl.Levels[int16], width, height int) Model {
	return Model{
		levels: levels,
		width:  max(width, 1),
		height: max(height, 1),
	}
}

// SetWidth resizes the waveform, e.g. on tea.WindowSizeMsg.
func (m Model) SetWidth(width int) Model {
	m.width = max(width, 1)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	var samples []int16
	if m.levels != nil {
		samples = m.levels.Read()
	}

	if len(samples) == 0 {
		return m.baseline()
	}

	heights := m.columns(samples)
	rows := make([]string, m.height)

	for row := range m.height {
		floor := (m.height - 1 - row) * 8

		var line strings.Builder
		for _, h := range heights {
			line.WriteRune(blocks[min(max(h-floor, 0), 8)])
		}

		rows[row] = style.Progress.Render(line.String())
	}

	return strings.Join(rows, "\n")
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(refresh, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// columns buckets samples by column and scales each bucket's peak to 0..height*8.
func (m Model) columns(samples []int16) []int {
	out := make([]int, m.width)
	bucket := max(1, len(samples)/m.width)
	top := m.height * 8

	for col := range out {
		start := col * bucket
		if start >= len(samples) {
			break
		}

		peak := peakAmplitude(samples[start:min(start+bucket, len(samples))])
		out[col] = scale(peak, top)
	}

	return out
}

func (m Model) baseline() string {
	blank := strings.Repeat(" ", m.width)
	rows := make([]string, m.height)

	for i := range rows {
		rows[i] = blank
	}
	rows[m.height-1] = strings.Repeat("▁", m.width)

	return style.Muted.Render(strings.Join(rows, "\n"))
}

func peakAmplitude(samples []int16) int {
	peak := 0
	for _, s := range samples {
		a := int(s)
		if a < 0 {
			a = -a
		}
		peak = max(peak, a)
	}

	return min(peak, math.MaxInt16)
}

// scale maps 0..MaxInt16 onto 0..top on a square-root curve so quiet speech stays visible.
func scale(peak, top int) int {
	if peak <= 0 {
		return 0
	}

	v := math.Sqrt(float64(peak)/math.MaxInt16) * float64(top)

	return min(int(v), top)
}
