package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// TextGenerator is a plain-text completion backend.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Regenerator rewrites only the prose summary of an existing result.
type Regenerator struct {
	gen    TextGenerator
	logger *slog.Logger
}

// NewRegenerator creates a Regenerator over the given backend.
func NewRegenerator(gen TextGenerator, logger *slog.Logger) *Regenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Regenerator{gen: gen, logger: logger}
}

// Regenerate returns a fresh summary following SummaryTemplate. The output is
// free text; its structure is not checked. Callers keep their prior state on error.
func (r *Regenerator) Regenerate(ctx context.Context, req RegenerateRequest) (string, error) {
	text, err := r.gen.GenerateText(ctx, buildRegeneratePrompt(req))
	if err != nil {
		if !errors.Is(err, ErrAnalysisFailed) {
			err = &TransportError{Op: "regenerate", Err: err}
		}
		r.logger.Error("feedback regeneration failed", "kind", ErrorKind(err), "error", err)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		err := &SchemaError{Op: "regenerate", Reason: "empty response", Err: ErrMissingBody}
		r.logger.Error("feedback regeneration failed", "kind", ErrorKind(err), "error", err)
		return "", err
	}

	r.logger.Debug("feedback regenerated", "chars", len(text), "two_attempts", req.twoAttempts())

	return text, nil
}
