// Package style defines lipgloss styles for the TUI.
package style

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Names omit a "Style" suffix; callers read style.Title, not style.TitleStyle.
var (
	// Title is used for phase titles and headers.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Subtitle is used for secondary text.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	// Panel frames the summary and transcript blocks.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	// Help is used for keyboard shortcut hints.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	// Key highlights the key inside a hint.
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	Progress = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	// Label is used for inline labels such as "Overall:".
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255"))

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	Bullet = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205"))

	// Phonetic renders IPA hints next to a word.
	Phonetic = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("111"))
)

// Score picks a color band for a 0-100 score.
func Score(n int) lipgloss.Style {
	switch {
	case n >= 85:
		return Success
	case n >= 60:
		return Warning
	default:
		return Error
	}
}

// KeyHelp renders "[key] desc" for a binding, followed by any suffix.
func KeyHelp(b key.Binding, suffix ...string) string {
	s := Help.Render("[") + Key.Render(b.Help().Key) +
		Help.Render("] ") +
		Help.Render(b.Help().Desc)

	return s + strings.Join(suffix, "")
}
