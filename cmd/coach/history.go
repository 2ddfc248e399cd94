package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/alkime/englishpro/internal/bootstrap"
	"github.com/alkime/englishpro/internal/history"
	"github.com/alkime/englishpro/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const intendedPreview = 40

// HistoryCmd groups the saved-analysis subcommands.
type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"1" help:"List saved analyses, newest first"`
	Show   HistoryShowCmd   `cmd:"" help:"Print one saved analysis as JSON"`
	Delete HistoryDeleteCmd `cmd:"" help:"Delete a saved analysis"`
}

// HistoryListCmd lists saved analyses.
type HistoryListCmd struct{}

// Run executes the history list command.
func (c *HistoryListCmd) Run(g *Globals) error {
	st, err := g.storage()
	if err != nil {
		return err
	}

	items := st.History.Items()
	if len(items) == 0 {
		fmt.Println("No saved analyses yet.")
		return nil
	}

	return writeHistoryTable(os.Stdout, items)
}

func writeHistoryTable(w io.Writer, items []history.Item) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "WHEN", "OVERALL", "INTENDED TEXT")

	for _, it := range items {
		t.Row(
			it.ID,
			time.UnixMilli(it.Timestamp).Format(time.DateTime),
			strconv.Itoa(it.Result.Scores.Overall),
			truncate(it.IntendedText, intendedPreview),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

// HistoryShowCmd prints one saved analysis.
type HistoryShowCmd struct {
	ID string `arg:"" help:"Item id"`
}

// Run executes the history show command.
func (c *HistoryShowCmd) Run(g *Globals) error {
	st, err := g.storage()
	if err != nil {
		return err
	}

	item, err := st.History.Get(c.ID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(item)
}

// HistoryDeleteCmd deletes a saved analysis.
type HistoryDeleteCmd struct {
	ID string `arg:"" help:"Item id"`
}

// Run executes the history delete command.
func (c *HistoryDeleteCmd) Run(g *Globals) error {
	st, err := g.storage()
	if err != nil {
		return err
	}

	if err := st.History.Delete(c.ID); err != nil {
		return err
	}

	fmt.Printf("deleted %s\n", c.ID)

	return nil
}

// ReviewCmd opens the review screen for a saved analysis.
type ReviewCmd struct {
	ID string `arg:"" help:"Item id (see 'coach history list')"`
}

// Run executes the review command.
func (c *ReviewCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	st, err := g.storage()
	if err != nil {
		return err
	}

	bootstrap.ResolveKeys(g.Config)

	lg, closer := g.tuiLogger(st.Root)
	defer closer.Close()

	coach, err := bootstrap.Controller(ctx, g.Config, st, lg)
	if err != nil {
		return err
	}

	if err := coach.SelectHistory(c.ID); err != nil {
		return err
	}

	m := tui.NewReviewOnly(tui.Config{
		Context:    ctx,
		Cancel:     cancel,
		Coach:      coach,
		Editor:     tui.ExecEditor{Command: os.Getenv("COACH_EDITOR")},
		ScratchDir: st.Root,
	})
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
