package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/sudo-init-do/workhub/internal/alerts"
	"github.com/sudo-init-do/workhub/internal/api"
	"github.com/sudo-init-do/workhub/internal/auth"
	"github.com/sudo-init-do/workhub/internal/config"
	"github.com/sudo-init-do/workhub/internal/logging"
	"github.com/sudo-init-do/workhub/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open storage")
	}
	defer st.Close()

	deps := api.Deps{
		Store:          st,
		Log:            log,
		Issuer:         auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Revoker:        auth.NewMemoryRevoker(),
		RefundOnDelete: cfg.AdDeleteRefund,
		AuthRateLimit:  cfg.AuthRateLimit,
	}

	// With Redis, revocations survive restarts and notifications go through asynq.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Fatal("redis unreachable")
		}
		deps.Revoker = auth.NewRedisRevoker(rdb)

		queue := alerts.NewQueue(cfg.RedisAddr)
		defer queue.Close()
		deps.Notifier = queue

		worker := alerts.NewWorker(cfg.RedisAddr, alerts.NewInbox(st), log)
		if err := worker.Start(); err != nil {
			log.WithError(err).Fatal("start notification worker")
		}
		defer worker.Shutdown()
		log.WithField("redis", cfg.RedisAddr).Info("notification queue enabled")
	}

	e := api.NewServer(deps)

	go func() {
		log.WithField("port", cfg.Port).Info("API server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
