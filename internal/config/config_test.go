package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdirTemp moves the test into an empty directory so no stray .env is read
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Expected Port '3000', got '%s'", cfg.Port)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("Expected TokenTTL 168h, got %s", cfg.TokenTTL)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Expected default model, got '%s'", cfg.Gemini.Model)
	}
	if cfg.Gemini.Timeout != 15*time.Second {
		t.Errorf("Expected Gemini timeout 15s, got %s", cfg.Gemini.Timeout)
	}
	if cfg.Search.CacheTTL != 24*time.Hour {
		t.Errorf("Expected cache TTL 24h, got %s", cfg.Search.CacheTTL)
	}
	if cfg.Search.RateLimit != 10 || cfg.Search.RateWindow != time.Minute {
		t.Errorf("Expected 10 per 1m, got %d per %s", cfg.Search.RateLimit, cfg.Search.RateWindow)
	}
	if cfg.HasQueue() {
		t.Error("Should not have a queue configured")
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://localhost/partsgpt")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("SEARCH_RATE_LIMIT", "3")
	t.Setenv("SEARCH_RATE_WINDOW", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected Port '8080', got '%s'", cfg.Port)
	}
	if !cfg.HasQueue() || !cfg.HasGemini() {
		t.Error("Should have queue and Gemini configured")
	}
	if cfg.Search.RateLimit != 3 || cfg.Search.RateWindow != 30*time.Second {
		t.Errorf("Expected 3 per 30s, got %d per %s", cfg.Search.RateLimit, cfg.Search.RateWindow)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() failed: %v", err)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := chdirTemp(t)
	content := "GOOGLE_API_KEY=from-file\nGEMINI_MODEL=gemini-1.5-flash\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_MODEL", "from-env")
	// godotenv sets variables that are still unset; register cleanup for it
	t.Setenv("GOOGLE_API_KEY", "")
	_ = os.Unsetenv("GOOGLE_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Gemini.APIKey != "from-file" {
		t.Errorf("Expected API key from .env, got '%s'", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "from-env" {
		t.Errorf("Environment should win over .env, got '%s'", cfg.Gemini.Model)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SEARCH_CACHE_TTL", "one day")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid SEARCH_CACHE_TTL")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseURL: "postgres://x",
		JWTSecret:   "s",
		TokenTTL:    time.Hour,
		Search:      SearchConfig{CacheTTL: time.Hour, RateLimit: 10, RateWindow: time.Minute},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() failed on valid config: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no database", func(c *Config) { c.DatabaseURL = "" }},
		{"no secret", func(c *Config) { c.JWTSecret = "" }},
		{"zero token ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"zero cache ttl", func(c *Config) { c.Search.CacheTTL = 0 }},
		{"zero limit", func(c *Config) { c.Search.RateLimit = 0 }},
		{"negative window", func(c *Config) { c.Search.RateWindow = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
