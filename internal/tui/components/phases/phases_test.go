package phases_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/alkime/englishpro/internal/tui/components/phases"
	"github.com/alkime/englishpro/pkg/collections"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoinits // recommend for CI by bubbletea folks
func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestPhases(t *testing.T) {
	checker := outputChecker{
		intervl: 100 * time.Millisecond,
		timeout: 1 * time.Second,
	}

	p1 := &modelMock{t: t, name: "record view"}
	p2 := &modelMock{t: t, name: "analyze view"}
	p3 := &modelMock{t: t, name: "review view"}
	p4 := &modelMock{t: t, name: "done view"}

	ph := phases.New([]phases.Phase{
		phases.NewPhase("Record", p1),
		phases.NewPhase("Analyze", p2),
		phases.NewPhase("Review", p3),
		phases.NewPhase("Done", p4),
	})
	all := []*modelMock{p1, p2, p3, p4}

	tm := teatest.NewTestModel(t, ph, teatest.WithInitialTermSize(300, 100))

	t.Run("initial phase is record", func(t *testing.T) {
		checker.CheckString(t, tm, "record view")
		t.Run("phase init state checks", func(t *testing.T) {
			checks := collections.Apply(all, func(m *modelMock) bool {
				return m.initCalled
			})
			require.Equal(t, []bool{true, false, false, false}, checks, "check state of inits across phases")
		})

		t.Run("phase updated state checks", func(t *testing.T) {
			checks := collections.Apply(all, func(m *modelMock) bool {
				return m.updated
			})
			require.Equal(t, []bool{false, false, false, false}, checks, "check state of updates across phases")
		})
	})

	t.Run("advance a phase", func(t *testing.T) {
		tm.Send(phases.NextPhaseMsg{})
		checker.CheckString(t, tm, "analyze view")
		t.Run("phase init state checks", func(t *testing.T) {
			checks := collections.Apply(all, func(m *modelMock) bool {
				return m.initCalled
			})
			require.Equal(t, []bool{true, true, false, false}, checks, "check state of inits across phases")
		})

		t.Run("phase updated state checks", func(t *testing.T) {
			checks := collections.Apply(all, func(m *modelMock) bool {
				return m.updated
			})
			require.Equal(t, []bool{false, false, false, false}, checks, "check state of updates across phases")
		})
	})

	t.Run("send mockMsg that triggers a forward advance", func(t *testing.T) {
		tm.Send(mockMsg{triggerForward: true})
		checker.CheckString(t, tm, "review view")
		t.Run("phase init state checks", func(t *testing.T) {
			checks := collections.Apply(all, func(m *modelMock) bool {
				return m.initCalled
			})
			require.Equal(t, []bool{true, true, true, false}, checks, "check state of inits across phases")
		})

		t.Run("phase updated state checks", func(t *testing.T) {
			checks := collections.Apply(all, func(m *modelMock) bool {
				return m.updated
			})
			require.Equal(t, []bool{false, true, false, false}, checks, "check state of updates across phases")
		})
	})
}

type modelMock struct {
	t          *testing.T
	name       string
	updated    bool
	initCalled bool
}

func (m *modelMock) Init() tea.Cmd {
	m.initCalled = true
	return nil
}
func (m *modelMock) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.t.Logf("modelMock Update called: %s, msg: %#v\n", m.name, msg)

	switch msg := msg.(type) {
	case mockMsg:
		m.updated = true
		if msg.triggerForward {
			return m, m.commandNextPhase()
		}
	}

	return m, nil
}

func (m *modelMock) commandNextPhase() tea.Cmd {
	return func() tea.Msg {
		return phases.NextPhaseMsg{}
	}
}

func (m *modelMock) View() string { return m.name }

type outputChecker struct {
	intervl, timeout time.Duration
}

func (o outputChecker) Check(t *testing.T, tm *teatest.TestModel, check func(buf []byte) bool) {
	teatest.WaitFor(t, tm.Output(), check,
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

func (o outputChecker) CheckString(t *testing.T, tm *teatest.TestModel, substr string) {
	o.Check(t, tm, func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	})
}

type mockMsg struct {
	triggerForward bool
}

func TestPhases_BoundsAndSteps(t *testing.T) {
	first := &modelMock{t: t, name: "first"}
	second := &modelMock{t: t, name: "second"}

	var m tea.Model = phases.New([]phases.Phase{
		phases.NewPhase("Record", first),
		phases.NewPhase("Review", second),
	})

	m, _ = m.Update(phases.PrevPhaseMsg{})
	require.Equal(t, "Record", m.(phases.Model).CurrentPhaseName(), "cannot go before the first phase")

	m, _ = m.Update(phases.NextPhaseMsg{})
	m, _ = m.Update(phases.NextPhaseMsg{})
	require.Equal(t, "Review", m.(phases.Model).CurrentPhaseName(), "cannot go past the last phase")
	require.Equal(t, "Record › Review", m.(phases.Model).Steps())

	m, _ = m.Update(phases.PrevPhaseMsg{})
	require.Equal(t, "first", m.View())
}
