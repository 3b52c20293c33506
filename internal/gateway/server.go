// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package gateway assembles the HTTP server of the dashboard gateway.

It owns the composition root: the middleware chain, the public auth surface,
and the two role-gated route groups. The admin group carries the dashboard,
projects, personnel, production and reports panels; the supervisor group
carries access control, inventory, gas registry, work fronts and the tool
inventory. Role gating is exact: a supervisor cannot reach an admin route
and vice versa.
*/
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/vetasur/minepanel/internal/admin/dashboard"
	"github.com/vetasur/minepanel/internal/admin/personnel"
	"github.com/vetasur/minepanel/internal/admin/production"
	"github.com/vetasur/minepanel/internal/admin/project"
	"github.com/vetasur/minepanel/internal/admin/report"
	"github.com/vetasur/minepanel/internal/auth"
	"github.com/vetasur/minepanel/internal/platform/config"
	"github.com/vetasur/minepanel/internal/platform/constants"
	"github.com/vetasur/minepanel/internal/platform/middleware"
	"github.com/vetasur/minepanel/internal/session"
	"github.com/vetasur/minepanel/internal/shell"
	"github.com/vetasur/minepanel/internal/super/accesslog"
	"github.com/vetasur/minepanel/internal/super/gas"
	"github.com/vetasur/minepanel/internal/super/inventory"
	"github.com/vetasur/minepanel/internal/super/tool"
	"github.com/vetasur/minepanel/internal/super/workfront"
	"github.com/vetasur/minepanel/internal/upstream"
)

// Server is the HTTP front of the gateway.
type Server struct {
	httpServer  *http.Server
	logger      *slog.Logger
	stopLimiter chan struct{}
}

// NewServer wires every handler into one router and returns the server,
// ready to listen.
func NewServer(cfg *config.Config, logger *slog.Logger, store *session.Store, api *upstream.Client, redisClient *redis.Client) *Server {
	stopLimiter := make(chan struct{})
	rateLimiter := middleware.NewRateLimiter(
		constants.DefaultRateLimitRPS,
		constants.DefaultRateLimitBurst,
		stopLimiter,
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.StructuredLogger(logger))
	router.Use(middleware.Recover)
	router.Use(chimiddleware.Timeout(constants.GlobalRequestTimeout))
	router.Use(rateLimiter.Handler)
	router.Use(middleware.LoadSession(store, cfg.SessionCookie))

	healthHandler := newHealthHandler(redisClient, api)
	router.Get("/healthz", healthHandler.liveness)
	router.Get("/readyz", healthHandler.readiness)

	authHandler := auth.NewHandler(store, api, cfg.SessionCookie, cfg.SessionTTL, cfg.CookieSecure)
	authHandler.Routes(router)

	shellHandler := shell.NewHandler()
	shellHandler.Routes(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(session.RoleAdmin))
		dashboard.NewHandler(dashboard.NewService(api, logger)).Routes(r)
		project.NewHandler(project.NewService(api, logger)).Routes(r)
		personnel.NewHandler(personnel.NewService(api, logger)).Routes(r)
		production.NewHandler(production.NewService(api, logger)).Routes(r)
		report.NewHandler(report.NewService(api, logger)).Routes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(session.RoleSupervisor))
		accesslog.NewHandler(accesslog.NewService(api, logger)).Routes(r)
		inventory.NewHandler(inventory.NewService(api, logger)).Routes(r)
		gas.NewHandler(gas.NewService(api, logger)).Routes(r)
		workfront.NewHandler(workfront.NewService(api, logger)).Routes(r)
		tool.NewHandler(tool.NewService(api, logger)).Routes(r)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
		logger:      logger,
		stopLimiter: stopLimiter,
	}
}

// ListenAndServe blocks until the server stops. A closed listener after
// Shutdown is not an error.
func (server *Server) ListenAndServe() error {
	server.logger.Info("server_listening", slog.String("addr", server.httpServer.Addr))
	if err := server.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the rate limiter's cleanup
// loop.
func (server *Server) Shutdown(ctx context.Context) error {
	close(server.stopLimiter)
	return server.httpServer.Shutdown(ctx)
}
