package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"

	// ProviderGemini regenerates feedback with the same model used for analysis.
	ProviderGemini = "gemini"
	// ProviderAnthropic regenerates feedback with Claude.
	ProviderAnthropic = "anthropic"
	// ProviderOpenAI regenerates feedback with an OpenAI chat model.
	ProviderOpenAI = "openai"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env       string `envconfig:"ENV" default:"development"`
	Port      string `envconfig:"PORT" default:"8080"`
	PublicDir string `envconfig:"PUBLIC_DIR" default:"./public"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Model settings
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`
	RegenProvider   string `envconfig:"REGEN_PROVIDER" default:"gemini"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`

	// Storage settings
	DataDir         string `envconfig:"DATA_DIR"`
	HistoryCapacity int    `envconfig:"HISTORY_CAPACITY" default:"10"`
	MaxUploadBytes  int64  `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`

	// Visitor stats
	CounterURL  string        `envconfig:"COUNTER_URL" default:"https://api.counterapi.dev/v1/english_pro_caitlin/total/increment"`
	VisitOffset int           `envconfig:"VISIT_OFFSET" default:"15240"`
	LiveRefresh time.Duration `envconfig:"LIVE_REFRESH" default:"8s"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks values envconfig cannot constrain on its own.
func (c *Config) Validate() error {
	switch c.RegenProvider {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("REGEN_PROVIDER %q: must be gemini, anthropic or openai", c.RegenProvider)
	}

	if c.HistoryCapacity <= 0 {
		return errors.New("HISTORY_CAPACITY must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	if c.LiveRefresh <= 0 {
		return errors.New("LIVE_REFRESH must be positive")
	}

	return nil
}

// BuildCSP constructs Content Security Policy based on mode.
// Both modes allow blob: media so the front-end can play local recordings.
func BuildCSP(mode string) string {
	if mode == "strict" {
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"media-src 'self' blob:; " +
			"connect-src 'self'; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"media-src 'self' blob:"
}
