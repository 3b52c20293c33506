// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Command panel runs the MinePanel dashboard gateway: the HTTP service that
// fronts the mining operations API for the admin and supervisor dashboards.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vetasur/minepanel/internal/gateway"
	"github.com/vetasur/minepanel/internal/platform/config"
	"github.com/vetasur/minepanel/internal/platform/constants"
	"github.com/vetasur/minepanel/internal/platform/ctxutil"
	platformredis "github.com/vetasur/minepanel/internal/platform/redis"
	"github.com/vetasur/minepanel/internal/session"
	"github.com/vetasur/minepanel/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	must("load_config", err)

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := platformredis.NewClient(ctx, cfg.RedisURL)
	must("connect_redis", err)
	defer redisClient.Close()

	tokens := session.NewRedisTokenRepository(redisClient, cfg.SessionTTL)

	// The client and the store reference each other: the store exchanges
	// refresh tokens through the client, and the client reads the current
	// access token from the store on every proxied request. The provider
	// closure breaks the cycle by resolving the store at call time.
	var store *session.Store
	api := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, func(ctx context.Context) (string, error) {
		sess := ctxutil.GetSession(ctx)
		if sess == nil {
			return "", session.ErrNoSession
		}
		return store.AccessToken(ctx, sess.ID)
	}, logger)
	store = session.NewStore(tokens, api, logger)

	server := gateway.NewServer(cfg, logger, store, api, redisClient)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		must("serve", err)
	case <-ctx.Done():
		logger.Info("shutdown_started")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	must("shutdown", server.Shutdown(shutdownCtx))

	logger.Info("shutdown_complete")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

func must(step string, err error) {
	if err != nil {
		slog.Error("startup_failed", slog.String("step", step), slog.Any("error", err))
		os.Exit(1)
	}
}
