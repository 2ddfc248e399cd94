// Package phases runs a fixed sequence of tea.Models one at a time.
package phases

import (
	"strings"

	"github.com/alkime/englishpro/internal/tui/style"
	tea "github.com/charmbracelet/bubbletea"
)

// NextPhaseMsg advances the container to the next phase.
type NextPhaseMsg struct{}

// PrevPhaseMsg moves the container back one phase.
type PrevPhaseMsg struct{}

// NextPhaseCmd is a tea.Cmd that emits NextPhaseMsg.
func NextPhaseCmd() tea.Msg { return NextPhaseMsg{} }

type Phase struct {
	Name string
	mdl  tea.Model
}

func NewPhase(name string, mdl tea.Model) Phase {
	return Phase{Name: name, mdl: mdl}
}

func (p Phase) Init() tea.Cmd {
	return p.mdl.Init()
}

func (p Phase) Update(msg tea.Msg) (Phase, tea.Cmd) {
	updated, cmd := p.mdl.Update(msg)
	p.mdl = updated

	return p, cmd
}

func (p Phase) View() string {
	return p.mdl.View()
}

// Model forwards messages to the current phase only. Phases are initialized
// when they become current.
type Model struct {
	phases []Phase
	curr   int
}

func New(phases []Phase) Model {
	return Model{phases: phases}
}

func (m Model) currentPhase() Phase {
	return m.phases[m.curr]
}

func (m Model) Init() tea.Cmd {
	return m.currentPhase().Init()
}

func (m Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch teaMsg.(type) {
	case NextPhaseMsg:
		if m.curr >= len(m.phases)-1 {
			return m, nil
		}
		m.curr++

		return m, m.currentPhase().Init()

	case PrevPhaseMsg:
		if m.curr <= 0 {
			return m, nil
		}
		m.curr--

		return m, m.currentPhase().Init()
	}

	ph, cmd := m.currentPhase().Update(teaMsg)
	m.phases[m.curr] = ph

	return m, cmd
}

func (m Model) View() string {
	return m.currentPhase().View()
}

// CurrentPhaseName returns the name of the current phase.
func (m Model) CurrentPhaseName() string {
	return m.currentPhase().Name
}

// Steps renders every phase name with the current one highlighted.
func (m Model) Steps() string {
	names := make([]string, len(m.phases))
	for i, p := range m.phases {
		switch {
		case i == m.curr:
			names[i] = style.Title.Render(p.Name)
		case i < m.curr:
			names[i] = style.Success.Render(p.Name)
		default:
			names[i] = style.Muted.Render(p.Name)
		}
	}

	return strings.Join(names, style.Muted.Render(" › "))
}
