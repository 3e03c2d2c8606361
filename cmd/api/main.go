package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/modules/occupancy"
	"hotelops/internal/modules/presence"
	jwtsvc "hotelops/internal/pkg/jwt"
	"hotelops/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("failed to load config")
	}
	logger := newLogger(cfg)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	if err := repository.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate failed")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hub := presence.NewHub(logger)
	var notifier occupancy.Notifier = hub

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		relay := presence.NewRedisRelay(rdb, hub, logger)
		sub, err := relay.Subscribe(ctx)
		if err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis relay subscribe failed")
		}
		go func() {
			if err := relay.Run(ctx, sub); err != nil {
				logger.Error().Err(err).Msg("redis relay stopped")
			}
		}()
		hub.UseRelay(relay)
		notifier = relay
		logger.Info().Str("addr", cfg.RedisAddr).Msg("presence relay enabled")
	}

	r := newRouter(serverDeps{
		cfg:      cfg,
		log:      logger,
		db:       db,
		rdb:      rdb,
		registry: reg,
		hub:      hub,
		notifier: notifier,
		tokens:   jwtsvc.New(cfg.JWTSecret, 24*time.Hour),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("hotelops api started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	hub.Close()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.LogPretty {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
