package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/partsgpt/internal/config"
	"github.com/briangreenhill/partsgpt/internal/db"
	"github.com/briangreenhill/partsgpt/internal/history"
	"github.com/briangreenhill/partsgpt/internal/jobs"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}
	if cfg.DatabaseURL == "" || !cfg.HasQueue() {
		logger.Fatal().Msg("worker needs DATABASE_URL and REDIS_ADDR")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to connect to database")
	}
	defer pool.Close()
	q := db.New(pool)

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			jobs.QueueHistory: 5,
			"default":         1,
		},
	})
	mux := asynq.NewServeMux()
	mux.Handle(jobs.TaskRecordSearch, jobs.HandleRecordSearch(history.StoreRecorder{Q: q}, logger))

	logger.Info().Str("redis", cfg.RedisAddr).Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}
