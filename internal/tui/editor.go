package tui

import (
	"context"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
)

// EditorLauncher suspends the TUI while the user edits a file.
// The returned command must eventually emit EditorDoneMsg.
type EditorLauncher interface {
	Launch(filePath string) tea.Cmd
}

// EditorDoneMsg reports that the editor exited.
type EditorDoneMsg struct {
	Err error
}

// ExecEditor runs Command, falling back to $EDITOR and then vi.
type ExecEditor struct {
	Command string
}

//nolint:gosec // the editor is chosen by the user
func (e ExecEditor) Launch(filePath string) tea.Cmd {
	name := e.Command
	if name == "" {
		name = os.Getenv("EDITOR")
	}
	if name == "" {
		name = "vi"
	}

	c := exec.CommandContext(context.Background(), name, filePath)

	return tea.ExecProcess(c, func(err error) tea.Msg {
		return EditorDoneMsg{Err: err}
	})
}
