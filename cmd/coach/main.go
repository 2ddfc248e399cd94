package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/alkime/englishpro/internal/bootstrap"
	"github.com/alkime/englishpro/internal/config"
	"github.com/alkime/englishpro/internal/logger"
)

// CLI defines the coach command structure.
type CLI struct {
	Record  RecordCmd  `cmd:"" default:"withargs" help:"Record an attempt, analyze it and review the feedback"`
	Analyze AnalyzeCmd `cmd:"" help:"Analyze recorded files or links"`
	History HistoryCmd `cmd:"" help:"List, show or delete saved analyses"`
	Review  ReviewCmd  `cmd:"" help:"Review a saved analysis"`
	Devices DevicesCmd `cmd:"" help:"List available audio devices"`
	Stats   StatsCmd   `cmd:"" help:"Show visit and live-user counters"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
}

// Globals is bound into every command's Run.
type Globals struct {
	Config *config.Config
	Logger *slog.Logger
}

// storage opens local storage for commands that need no model.
func (g *Globals) storage() (*bootstrap.Storage, error) {
	return bootstrap.OpenStorage(g.Config, g.Logger)
}

// tuiLogger sends logs to a file while a TUI owns the terminal.
func (g *Globals) tuiLogger(root string) (*slog.Logger, io.Closer) {
	path := filepath.Join(root, "coach.log")

	//nolint:gosec // log file in the user's own data dir
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		g.Logger.Warn("cannot open log file, logging to stderr", "path", path, "error", err)
		return g.Logger, io.NopCloser(nil)
	}

	return logger.SetupCLILogger(g.Config, f), f
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	lg := logger.SetupCLILogger(cfg, os.Stderr)

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	kctx := kong.Parse(cli,
		kong.Name("coach"),
		kong.Description("English pronunciation coach."),
		kong.UsageOnError(),
	)
	err = kctx.Run(&Globals{Config: cfg, Logger: lg})
	kctx.FatalIfErrorf(err)
}
