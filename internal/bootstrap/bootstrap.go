// Package bootstrap builds the controller and its collaborators from
// configuration. Both the HTTP server and the coach CLI start here.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/config"
	"github.com/alkime/englishpro/internal/history"
	"github.com/alkime/englishpro/internal/keyring"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/stats"
	"github.com/alkime/englishpro/internal/store"
	"github.com/alkime/englishpro/internal/workdir"
	"github.com/alkime/englishpro/internal/writer"
)

// Storage is the durable state that needs no API keys.
type Storage struct {
	Root    string
	KV      *store.Local
	History *history.Store
}

// OpenStorage opens the local storage file and loads saved history.
func OpenStorage(cfg *config.Config, logger *slog.Logger) (*Storage, error) {
	root, err := workdir.Root(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	kv, err := store.NewLocal(root, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}

	hist := history.New(kv,
		history.WithCapacity(cfg.HistoryCapacity),
		history.WithLogger(logger),
	)
	hist.Load()

	logger.Debug("storage opened", "path", kv.Path(), "history", len(hist.Items()))

	return &Storage{Root: root, KV: kv, History: hist}, nil
}

// ResolveKeys fills empty API keys from the system keychain.
func ResolveKeys(cfg *config.Config) {
	cfg.GeminiAPIKey = keyring.Resolve(keyring.Gemini, cfg.GeminiAPIKey)
	cfg.AnthropicAPIKey = keyring.Resolve(keyring.Anthropic, cfg.AnthropicAPIKey)
	cfg.OpenAIAPIKey = keyring.Resolve(keyring.OpenAI, cfg.OpenAIAPIKey)
}

// Controller wires a controller over storage. API keys must already be resolved.
func Controller(ctx context.Context, cfg *config.Config, st *Storage, logger *slog.Logger) (*app.Controller, error) {
	client, err := analysis.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}

	gen, err := writer.Select(cfg.RegenProvider, client, writer.Keys{
		Anthropic: cfg.AnthropicAPIKey,
		OpenAI:    cfg.OpenAIAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select feedback writer: %w", err)
	}

	logger.Info("models configured",
		"analysis", client.Name(),
		"regeneration", cfg.RegenProvider,
	)

	regen := analysis.NewRegenerator(gen, logger)

	return app.New(client, regen, st.History, media.NewPreviews(), logger), nil
}

// Stats builds the visit and live-user service over storage.
func Stats(cfg *config.Config, st *Storage, logger *slog.Logger) *stats.Service {
	counter := stats.NewVisitCounter(cfg.CounterURL, cfg.VisitOffset, st.KV, logger)

	return stats.NewService(counter, stats.NewLiveEstimator(), cfg.LiveRefresh, logger)
}
