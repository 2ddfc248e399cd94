// Package server exposes the coach controller over HTTP for the browser front end.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/englishpro/internal/analysis"
	"github.com/alkime/englishpro/internal/app"
	"github.com/alkime/englishpro/internal/config"
	"github.com/alkime/englishpro/internal/media"
	"github.com/alkime/englishpro/internal/review"
	"github.com/alkime/englishpro/internal/stats"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Coach is the controller surface the handlers drive. *app.Controller
// implements it.
type Coach interface {
	Snapshot() app.Snapshot
	SetDraft(d app.Draft)
	SelectFile(slot int, upload *media.Upload) (media.PreviewRef, error)
	ClearSlot(slot int) error
	Preview(ref media.PreviewRef) (*media.Upload, bool)
	Submit(ctx context.Context) (analysis.Result, error)
	RegenerateFeedback(ctx context.Context) (string, error)
	SaveSummary(text string) error
	Navigate(dir review.Direction) error
	SelectHistory(id string) error
	DeleteHistory(id string) error
	ShowView(v app.View) error
	Reset()
}

// StatsSource provides the header counters.
type StatsSource interface {
	Snapshot() stats.Snapshot
}

var (
	_ Coach       = (*app.Controller)(nil)
	_ StatsSource = (*stats.Service)(nil)
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
	coach  Coach
	stats  StatsSource
}

// New creates a new Server instance
func New(cfg *config.Config, logger *slog.Logger, coach Coach, statsSrc StatsSource) *Server {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	if cfg.Env == config.EnvProduction {
		router.TrustedPlatform = gin.PlatformFlyIO
		logger.Debug("Configured trusted platform", "platform", "fly.io")
	}

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		coach:  coach,
		stats:  statsSrc,
	}

	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router returns the underlying handler, for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, s *Server) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "port", s.config.Port)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/state", s.handleState)
		api.PUT("/draft", s.handleDraft)

		api.PUT("/media/:slot", s.limitBody(), s.handleUpload)
		api.DELETE("/media/:slot", s.handleClearSlot)
		api.GET("/previews/:ref", s.handlePreview)

		api.POST("/analyze", s.handleAnalyze)
		api.POST("/result/regenerate", s.handleRegenerate)
		api.PUT("/result/summary", s.handleSaveSummary)
		api.POST("/result/navigate", s.handleNavigate)

		api.GET("/history", s.handleHistory)
		api.POST("/history/:id/select", s.handleSelectHistory)
		api.DELETE("/history/:id", s.handleDeleteHistory)

		api.POST("/view", s.handleView)
		api.POST("/reset", s.handleReset)
		api.GET("/stats", s.handleStats)
	}

	// The front end is a static bundle; API routes never match a file there.
	s.router.Use(static.Serve("/", static.LocalFile(s.config.PublicDir, false)))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "englishpro",
	})
}
