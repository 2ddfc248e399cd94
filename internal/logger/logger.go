package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/alkime/englishpro/internal/config"
)

// SetupLogger configures structured JSON logging for the server based on environment.
func SetupLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{ //nolint:exhaustruct // defaults
		Level: Level(cfg),
	}))

	slog.SetDefault(logger)

	return logger
}

// SetupCLILogger configures human-readable logging for the coach CLI.
// Output goes to w so it never interleaves with JSON printed on stdout.
func SetupCLILogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{ //nolint:exhaustruct // defaults
		Level: level,
	}))

	slog.SetDefault(logger)

	return logger
}

// Level determines the log level from the environment and LOG_LEVEL.
func Level(cfg *config.Config) slog.Level {
	logLevel := slog.LevelInfo
	if cfg.Env == "development" {
		logLevel = slog.LevelDebug
	}

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	return logLevel
}
