package labeledspinner_test

import (
	"testing"

	"github.com/alkime/englishpro/internal/tui/components/labeledspinner"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestLabeledSpinner(t *testing.T) {
	m := labeledspinner.New(spinner.Dot, "Analyzing", "Listening to your attempt", "q to quit")

	v0 := m.View()
	t.Run("view output", func(t *testing.T) {
		assert.Contains(t, v0, "Analyzing")
		assert.Contains(t, v0, "Listening to your attempt")
		assert.Contains(t, v0, "q to quit")
		assert.Contains(t, v0, spinner.Dot.Frames[0])
	})

	t.Run("ticks advance frames", func(t *testing.T) {
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Dot.Frames[1])
		m, _ = m.Update(spinner.TickMsg{})
		assert.Contains(t, m.View(), spinner.Dot.Frames[2])
	})

	t.Run("other messages are ignored", func(t *testing.T) {
		before := m.View()
		m, cmd := m.Update("noise")
		assert.Nil(t, cmd)
		assert.Equal(t, before, m.View())
	})

	t.Run("empty subtitle is skipped", func(t *testing.T) {
		bare := labeledspinner.New(spinner.Dot, "Rewriting", "", "")
		assert.NotContains(t, bare.ViewWithHelp("3s"), "\n\n\n")
		assert.Contains(t, bare.ViewWithHelp("3s"), "3s")
	})
}
