package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/audio"
	"github.com/alkime/englishpro/internal/bootstrap"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/tui"
	"github.com/alkime/englishpro/internal/workdir"
	tea "github.com/charmbracelet/bubbletea"
)

// RecordCmd is the default command: record, analyze, review.
type RecordCmd struct {
	Text        string        `arg:"" optional:"" help:"The sentence you are going to say"`
	MaxDuration time.Duration `flag:"" default:"2m" help:"Max recording duration"`
	MaxBytes    int64         `flag:"" default:"0" help:"Max PCM bytes kept (0 derives it from the upload limit)"`
}

// Run executes the record command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *RecordCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	wg := sync.WaitGroup{}

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
	coach.SetIntendedText(c.Text)

	outputPath := workdir.RecordingPath(st.Root, time.Now())
	if err := workdir.Prep(filepath.Dir(outputPath)); err != nil {
		return err
	}

	maxBytes := c.MaxBytes
	if maxBytes == 0 {
		// The limit counts PCM; the encoded MP3 is several times smaller.
		maxBytes = g.Config.MaxUploadBytes * 4
	}

	rec, err := audio.NewRecorder(audio.NewDevice(audio.SpeechConfig()), audio.RecordConfig{
		MaxDuration: c.MaxDuration,
		MaxBytes:    maxBytes,
	}, lg)
	if err != nil {
		return fmt.Errorf("failed to create audio recorder: %w", err)
	}

	m := tui.NewSession(tui.Config{
		Context:    ctx,
		Cancel:     cancel,
		Coach:      coach,
		Editor:     tui.ExecEditor{Command: os.Getenv("COACH_EDITOR")},
		ScratchDir: st.Root,
	}, tui.RecordingControls{
		Size:        rec.Size(),
		Capture:     rec.Pause(),
		Levels:      rec.Levels(),
		MaxDuration: rec.MaxDuration(),
		Finish:      rec.Stop,
	})
	p := tea.NewProgram(m)

	// Recorder goroutine: ends on Finish, a limit or quit, then attaches the take.
	wg.Go(func() {
		err := recordTo(ctx, rec, coach, outputPath)
		if err != nil {
			lg.Error("recording failed", "path", outputPath, "error", err)
		}
		p.Send(tui.RecordingDoneMsg{Err: err})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	rec.Stop()
	wg.Wait()

	fmt.Printf("\nrecording saved to %s\n", outputPath)

	return nil
}

func recordTo(ctx context.Context, rec *audio.Recorder, coach *app.Controller, path string) error {
	//nolint:gosec // path is built from the data dir
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create recording file: %w", err)
	}

	stats, recErr := rec.Record(ctx, f)
	if err := f.Close(); err != nil {
		recErr = errors.Join(recErr, err)
	}
	if recErr != nil {
		return recErr
	}
	if stats.PCMBytes == 0 {
		return errors.New("nothing was recorded")
	}

	data, err := os.ReadFile(path) //nolint:gosec // same path as above
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	upload, err := media.NewUpload(filepath.Base(path), "audio/mpeg", data)
	if err != nil {
		return err
	}

	_, err = coach.SelectFile(1, upload)

	return err
}
