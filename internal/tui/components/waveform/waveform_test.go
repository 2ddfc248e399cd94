package waveform_test

import (
	"strings"
	"testing"

	"github.com/alkime/englishpro/internal/tui/components/waveform"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type levels []int16

func (l levels) Read() []int16 { return l }

func TestWaveform_SingleRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		samples levels
		width   int
		want    string
	}{
		{name: "no samples draws baseline", samples: nil, width: 5, want: "▁▁▁▁▁"},
		{name: "silence is blank", samples: levels{0, 0, 0, 0, 0}, width: 5, want: "     "},
		{name: "full scale", samples: levels{32767, 32767, 32767, 32767, 32767}, width: 5, want: "█████"},
		{name: "most negative sample is full scale", samples: levels{-32768, -32768, -32768}, width: 3, want: "███"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := waveform.New(tt.samples, tt.width, 1)
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestWaveform_NilLevels(t *testing.T) {
	t.Parallel()

	m := waveform.New(nil, 4, 2)
	lines := strings.Split(m.View(), "\n")

	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "▁▁▁▁")
}

func TestWaveform_LouderIsTaller(t *testing.T) {
	t.Parallel()

	m := waveform.New(levels{0, 8000, 32767, 8000, 0}, 5, 1)
	runes := []rune(m.View())

	require.GreaterOrEqual(t, len(runes), 5)
	assert.Equal(t, ' ', runes[0])
	assert.Equal(t, '█', runes[2])
	assert.NotEqual(t, runes[1], runes[2])
}

func TestWaveform_Buckets(t *testing.T) {
	t.Parallel()

	loud := make(levels, 100)
	for i := range loud {
		loud[i] = 20000
	}

	t.Run("more samples than columns", func(t *testing.T) {
		view := waveform.New(loud, 10, 1).View()
		assert.Equal(t, 10, len([]rune(strings.TrimRight(view, " "))))
	})

	t.Run("fewer samples than columns pads with blanks", func(t *testing.T) {
		view := waveform.New(levels{32767, 32767, 32767}, 10, 1).View()
		assert.GreaterOrEqual(t, len([]rune(view)), 10)
		assert.True(t, strings.HasPrefix(view, "███"))
	})
}

func TestWaveform_MultiRow(t *testing.T) {
	t.Parallel()

	m := waveform.New(levels{32767, 16000, 8000, 4000, 0}, 5, 3)
	lines := strings.Split(m.View(), "\n")

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "█"), "full scale fills the top row")
	assert.True(t, strings.HasSuffix(lines[2], " "), "silence leaves the bottom row blank")
}

func TestWaveform_HeightDefaultsToOne(t *testing.T) {
	t.Parallel()

	view := waveform.New(levels{32767}, 5, 0).View()
	assert.NotEmpty(t, view)
	assert.NotContains(t, view, "\n")
}

func TestWaveform_SetWidth(t *testing.T) {
	t.Parallel()

	m := waveform.New(nil, 3, 1).SetWidth(6)
	assert.Contains(t, m.View(), "▁▁▁▁▁▁")
}

func TestWaveform_Ticks(t *testing.T) {
	t.Parallel()

	m := waveform.New(levels{1000}, 5, 1)
	assert.NotNil(t, m.Init())

	_, cmd := m.Update(waveform.TickMsg{})
	assert.NotNil(t, cmd)

	_, cmd = m.Update("other")
	assert.Nil(t, cmd)
}
