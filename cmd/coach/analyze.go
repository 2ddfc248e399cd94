package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/bootstrap"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// AnalyzeCmd analyzes one or two attempts given as files or links.
type AnalyzeCmd struct {
	File             string `arg:"" optional:"" type:"existingfile" help:"Audio or video file for attempt 1"`
	Link             string `flag:"" help:"Link to attempt 1 (used when no file is given, or alongside it)"`
	SecondFile       string `flag:"" type:"existingfile" help:"Audio or video file for attempt 2"`
	SecondLink       string `flag:"" help:"Link to attempt 2"`
	Text             string `flag:"" short:"t" help:"The sentence you meant to say"`
	EditedTranscript string `flag:"" help:"Corrected transcript to grade against"`
	JSON             bool   `flag:"" help:"Print the result as JSON instead of opening the review screen"`
}

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	st, err := g.storage()
	if err != nil {
		return err
	}

	bootstrap.ResolveKeys(g.Config)

	lg := g.Logger
	if !c.JSON {
		var closer io.Closer
		lg, closer = g.tuiLogger(st.Root)
		defer closer.Close()
	}

	coach, err := bootstrap.Controller(ctx, g.Config, st, lg)
	if err != nil {
		return err
	}

	coach.SetDraft(app.Draft{
		IntendedText:     c.Text,
		Link1:            c.Link,
		Link2:            c.SecondLink,
		EditedTranscript: c.EditedTranscript,
	})

	for slot, path := range map[int]string{1: c.File, 2: c.SecondFile} {
		if path == "" {
			continue
		}
		if err := attachFile(coach, slot, path, g.Config.MaxUploadBytes); err != nil {
			return err
		}
	}

	if c.JSON {
		result, err := coach.Submit(ctx)
		if errors.Is(err, analysis.ErrNoInput) {
			return errors.New(app.MsgNoInput)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", app.MsgAnalysisFailed, err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(result)
	}

	m := tui.NewAnalyzeAndReview(tui.Config{
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

// attachFile loads a file from disk into a controller slot.
func attachFile(coach *app.Controller, slot int, path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("attempt %d: %w", slot, err)
	}
	if info.Size() > maxBytes {
		return fmt.Errorf("attempt %d: %s is %d bytes, over the %d byte limit", slot, path, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("attempt %d: %w", slot, err)
	}

	upload, err := media.NewUpload(filepath.Base(path), "", data)
	if err != nil {
		return fmt.Errorf("attempt %d: %w", slot, err)
	}

	_, err = coach.SelectFile(slot, upload)

	return err
}
