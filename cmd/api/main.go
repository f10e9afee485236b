package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/glucowise/backend/config"
	"github.com/pageza/glucowise/backend/internal/database"
	"github.com/pageza/glucowise/backend/internal/logger"
	"github.com/pageza/glucowise/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log := logger.New("glucowise-api", "info")
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New("glucowise-api", cfg.LogLevel)
	if config.IsDevelopment() {
		log = logger.NewWithWriter(zerolog.ConsoleWriter{Out: os.Stdout}, "glucowise-api", cfg.LogLevel)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("environment", string(config.GetEnvironment())).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.RunMigrations(db, migrationsDir, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	var opts []server.Option

	redisClient, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		// Ingestion still works without the limiter.
		log.Warn().Err(err).Msg("redis unavailable, device rate limiting disabled")
	} else if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, server.WithRedis(redisClient))
	}

	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("object storage unavailable, image references returned as stored")
	} else if s3Cfg != nil {
		opts = append(opts, server.WithImages(s3Cfg))
	}

	srv := server.New(cfg, db, log, opts...)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("shutdown complete")
}
