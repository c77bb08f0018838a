package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ruralcare/arogya/internal/account"
	"github.com/ruralcare/arogya/internal/api"
	"github.com/ruralcare/arogya/internal/auth"
	"github.com/ruralcare/arogya/internal/booking"
	"github.com/ruralcare/arogya/internal/config"
	"github.com/ruralcare/arogya/internal/content"
	"github.com/ruralcare/arogya/internal/db"
	"github.com/ruralcare/arogya/internal/directory"
	redisclient "github.com/ruralcare/arogya/internal/redis"
)

const version = "1.2.0"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stderr)

	log.Info().Str("version", version).Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load error")
	}

	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configured")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	log.Info().Msg("connected to Postgres")

	migrateCtx, cancelMigrate := context.WithTimeout(rootCtx, 30*time.Second)
	err = db.Migrate(migrateCtx, pgPool)
	cancelMigrate()
	if err != nil {
		log.Fatal().Err(err).Msg("schema migration error")
	}

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing redis")
		}
	}()
	log.Info().Msg("connected to Redis")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)

	directoryRepo := directory.NewPgRepository(pgPool)
	bookingRepo := booking.NewPgRepository(pgPool)
	accountRepo := account.NewPgRepository(pgPool)
	contentRepo := content.NewPgRepository(pgPool)

	router := api.NewRouter(api.RouterConfig{
		Accounts:        account.NewService(accountRepo, directoryRepo, tokens, cfg.AdminUser, cfg.AdminPassword),
		Directory:       directory.NewService(directoryRepo),
		Booking:         booking.NewService(bookingRepo, locker),
		Content:         contentRepo,
		Tokens:          tokens,
		PgPool:          pgPool,
		Redis:           rdb,
		Logger:          log.Logger,
		Env:             cfg.Env,
		Version:         version,
		DefaultOrigin:   cfg.DefaultOrigin,
		DefaultRadiusKm: cfg.DefaultRadiusKm,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-rootCtx.Done()

	log.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
