package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/citylink/admin-gateway/internal/api"
	"github.com/citylink/admin-gateway/internal/core/service"
	"github.com/citylink/admin-gateway/internal/infrastructure/db/redis"
	"github.com/citylink/admin-gateway/internal/infrastructure/upstream"
	"github.com/citylink/admin-gateway/internal/pkg/config"
	"github.com/citylink/admin-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{Service: "admin-gateway"})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		Service:     "admin-gateway",
	})

	var sessionOpts []service.SessionOption
	var rdb goredis.Cmdable
	redisCfg := redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connect redis")
		}
		defer client.Close()
		rdb = client
		sessionOpts = append(sessionOpts, service.WithRevocationStore(redis.NewRevocationStore(client)))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session revocation enabled")
	}

	sessions := service.NewSessionService(cfg.Session.Secret, log, sessionOpts...)
	up := upstream.NewClient(upstream.Config{BaseURL: cfg.Upstream.BaseURL, Timeout: cfg.Upstream.Timeout})

	e := api.NewRouter(api.Deps{
		Config:   cfg,
		Log:      log,
		Sessions: sessions,
		Upstream: up,
		Redis:    rdb,
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("upstream", cfg.Upstream.BaseURL).
			Str("env", cfg.Env).
			Msg("admin gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
