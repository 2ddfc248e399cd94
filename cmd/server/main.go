package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/alkime/englishpro/internal/bootstrap"
	"github.com/alkime/englishpro/internal/config"
	"github.com/alkime/englishpro/internal/logger"
	"github.com/alkime/englishpro/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg := logger.SetupLogger(cfg)

	lg.Info("Starting English Pro server",
		"env", cfg.Env,
		"port", cfg.Port,
		"regen_provider", cfg.RegenProvider,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := bootstrap.OpenStorage(cfg, lg)
	if err != nil {
		lg.Error("Failed to open storage", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	bootstrap.ResolveKeys(cfg)

	coach, err := bootstrap.Controller(ctx, cfg, st, lg)
	if err != nil {
		lg.Error("Failed to build controller", "error", err)
		log.Fatalf("Fatal: %v", err)
	}

	visits := bootstrap.Stats(cfg, st, lg)
	if err := visits.Init(ctx); err != nil {
		lg.Warn("Visit counter unavailable", "error", err)
	}
	go visits.Run(ctx)

	srv := server.New(cfg, lg, coach, visits)
	if err := server.Run(ctx, srv); err != nil {
		lg.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
