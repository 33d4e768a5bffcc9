// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	BaseURL         string        `env:"BASE_URL" envDefault:"http://localhost:3000"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"12h"`
	StaticDir       string        `env:"STATIC_DIR" envDefault:"web"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`

	Gemini GeminiConfig
	Search SearchConfig
}

// GeminiConfig holds the generative model settings
type GeminiConfig struct {
	APIKey  string        `env:"GOOGLE_API_KEY"`
	Model   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	BaseURL string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `env:"GEMINI_TIMEOUT" envDefault:"15s"`
}

// SearchConfig holds cache and rate-limit settings for part searches
type SearchConfig struct {
	CacheTTL   time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"24h"`
	RateLimit  int           `env:"SEARCH_RATE_LIMIT" envDefault:"10"`
	RateWindow time.Duration `env:"SEARCH_RATE_WINDOW" envDefault:"1m"`
	PromptPath string        `env:"SEARCH_PROMPT_PATH"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// HasQueue returns true if a Redis address is configured for background jobs
func (c Config) HasQueue() bool {
	return c.RedisAddr != ""
}

// HasGemini returns true if an API key for the model is configured
func (c Config) HasGemini() bool {
	return c.Gemini.APIKey != ""
}

// Validate checks the settings the API server cannot start without
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.Search.CacheTTL <= 0 {
		return fmt.Errorf("SEARCH_CACHE_TTL must be positive, got %s", c.Search.CacheTTL)
	}
	if c.Search.RateLimit <= 0 {
		return fmt.Errorf("SEARCH_RATE_LIMIT must be positive, got %d", c.Search.RateLimit)
	}
	if c.Search.RateWindow <= 0 {
		return fmt.Errorf("SEARCH_RATE_WINDOW must be positive, got %s", c.Search.RateWindow)
	}
	return nil
}
