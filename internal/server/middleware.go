package server

import (
	"log/slog"
	"net/http"

	"github.com/alkime/englishpro/internal/config"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is headroom for form boundaries and headers on top of the file itself.
const multipartOverhead = 1 << 20

// setupSecurityMiddleware configures and applies security middleware to the router
func setupSecurityMiddleware(router *gin.Engine, cfg *config.Config, logger *slog.Logger) {
	stsSeconds := int64(0)
	if cfg.Env == config.EnvProduction {
		stsSeconds = int64(cfg.HSTSMaxAge)
	}

	secureMiddleware := secure.New(secure.Config{
		STSSeconds:            stsSeconds,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: config.BuildCSP(cfg.CSPMode),
	})
	router.Use(secureMiddleware)

	logger.Debug("Configured security middleware",
		"hsts_enabled", cfg.Env == config.EnvProduction,
		"csp_mode", cfg.CSPMode,
	)
}

// limitBody caps request bodies for upload routes.
func (s *Server) limitBody() gin.HandlerFunc {
	limit := s.config.MaxUploadBytes + multipartOverhead

	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
