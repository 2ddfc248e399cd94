package config_test

import (
	"testing"
	"time"

	"github.com/alkime/englishpro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, config.ProviderGemini, cfg.RegenProvider)
	assert.Equal(t, 10, cfg.HistoryCapacity)
	assert.Equal(t, 15240, cfg.VisitOffset)
	assert.Equal(t, 8*time.Second, cfg.LiveRefresh)
}

func TestLoadConfig_InvalidProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REGEN_PROVIDER", "mistral")

	_, err := config.LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REGEN_PROVIDER")
}

func TestValidate(t *testing.T) {
	valid := config.Config{
		RegenProvider:   config.ProviderAnthropic,
		HistoryCapacity: 10,
		MaxUploadBytes:  1024,
		LiveRefresh:     time.Second,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "zero capacity", mutate: func(c *config.Config) { c.HistoryCapacity = 0 }},
		{name: "zero upload limit", mutate: func(c *config.Config) { c.MaxUploadBytes = 0 }},
		{name: "zero refresh", mutate: func(c *config.Config) { c.LiveRefresh = 0 }},
		{name: "unknown provider", mutate: func(c *config.Config) { c.RegenProvider = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBuildCSP(t *testing.T) {
	strict := config.BuildCSP("strict")
	assert.Contains(t, strict, "object-src 'none'")
	assert.Contains(t, strict, "media-src 'self' blob:")

	relaxed := config.BuildCSP("relaxed")
	assert.Contains(t, relaxed, "'unsafe-inline'")
	assert.NotContains(t, relaxed, "object-src")
}
