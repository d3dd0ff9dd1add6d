package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adminhub/user-management/internal/api"
	"github.com/adminhub/user-management/internal/infrastructure/config"
	mongodb "github.com/adminhub/user-management/internal/infrastructure/db/mongo"
	redisdb "github.com/adminhub/user-management/internal/infrastructure/db/redis"
	"github.com/adminhub/user-management/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if cfg.JWTSecret == "" || cfg.RefreshSecret == "" {
		log.Fatal().Msg("JWT_SECRET and REFRESH_SECRET must be set")
	}
	if cfg.JWTSecret == cfg.RefreshSecret {
		log.Fatal().Msg("JWT_SECRET and REFRESH_SECRET must differ")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		// The cache is best-effort; the repository remains authoritative.
		log.Warn().Err(err).Msg("redis unavailable, user cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}
	if err := userRepo.Seed(ctx, cfg.BcryptCost); err != nil {
		log.Fatal().Err(err).Msg("failed to seed demo users")
	}

	e, err := api.NewRouter(db, rdb, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
