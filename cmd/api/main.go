package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/swipechef/backend/config"
	"github.com/swipechef/backend/internal/database"
	"github.com/swipechef/backend/internal/logging"
	"github.com/swipechef/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("environment", string(cfg.Environment)).Msg("configuration loaded")

	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.Database.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deps server.Deps
	if cfg.Redis.Enabled {
		var client *redis.Client
		client, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			// caching and rate limiting are optional
			logging.Warn().Err(err).Msg("redis unavailable, continuing without cache and rate limits")
		} else {
			deps.Redis = client
			defer client.Close()
		}
	}
	if cfg.Storage.Enabled {
		storage, err := config.NewS3Config(ctx, cfg.Storage)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to configure object storage")
		}
		deps.Storage = storage
	}

	srv := server.New(cfg, db, deps)
	if err := srv.Start(ctx); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logging.Info().Msg("server stopped")
}
