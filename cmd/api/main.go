// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/partsgpt/internal/auth"
	"github.com/briangreenhill/partsgpt/internal/cache"
	"github.com/briangreenhill/partsgpt/internal/config"
	"github.com/briangreenhill/partsgpt/internal/db"
	"github.com/briangreenhill/partsgpt/internal/genai"
	"github.com/briangreenhill/partsgpt/internal/history"
	"github.com/briangreenhill/partsgpt/internal/http/routes"
	"github.com/briangreenhill/partsgpt/internal/jobs"
	"github.com/briangreenhill/partsgpt/internal/observability"
	"github.com/briangreenhill/partsgpt/internal/prompt"
	"github.com/briangreenhill/partsgpt/internal/ratelimit"
	"github.com/briangreenhill/partsgpt/internal/search"
)

func main() {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	// DB
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db error")
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}
	queries := db.New(pool)

	// Sessions
	sess := scs.New()
	sess.Lifetime = cfg.SessionLifetime
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode
	sess.Cookie.Secure = strings.HasPrefix(cfg.BaseURL, "https://")

	// Metrics
	var (
		metrics        *observability.Metrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = observability.NewMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	// Search
	if !cfg.HasGemini() {
		logger.Warn().Msg("GOOGLE_API_KEY is not set; part searches will fail until it is configured")
	}
	gen := genai.New(cfg.Gemini.APIKey,
		genai.WithBaseURL(cfg.Gemini.BaseURL),
		genai.WithModel(cfg.Gemini.Model),
		genai.WithTimeout(cfg.Gemini.Timeout),
	)
	limiter := ratelimit.New(cfg.Search.RateLimit, cfg.Search.RateWindow)
	logger.Info().
		Int("limit", limiter.Limit()).
		Dur("window", limiter.Window()).
		Dur("cache_ttl", cfg.Search.CacheTTL).
		Msg("search limits")
	svc := search.New(search.Options{
		Generator: gen,
		Prompter:  prompt.LoadWithFallback(cfg.Search.PromptPath, logger),
		Cache:     cache.NewResultCache(cache.WithTTL(cfg.Search.CacheTTL)),
		Limiter:   limiter,
		Metrics:   metrics,
	})

	// History writes go through the worker when Redis is configured
	var recorder history.Recorder = history.StoreRecorder{Q: queries}
	if cfg.HasQueue() {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("close asynq client")
			}
		}()
		recorder = jobs.QueueRecorder{Client: client}
	}

	// Router / server
	s := routes.New(routes.ServerOptions{
		Sess:     sess,
		Store:    queries,
		Tokens:   auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL},
		Search:   svc,
		Recorder: recorder,
		Metrics:  metricsHandler,
		Static:   cfg.StaticDir,
	})

	var h http.Handler = s
	h = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(logger)(h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Gemini.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("model", gen.Model()).
			Bool("queue", cfg.HasQueue()).
			Msg("starting api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	logger.Info().Msg("api stopped")
}
