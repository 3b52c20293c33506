// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vetasur/minepanel/internal/platform/constants"
	"github.com/vetasur/minepanel/internal/platform/respond"
	"github.com/vetasur/minepanel/internal/upstream"
)

const healthCheckTimeout = 3 * time.Second

type healthHandler struct {
	redisClient *redis.Client
	api         *upstream.Client
}

func newHealthHandler(redisClient *redis.Client, api *upstream.Client) *healthHandler {
	return &healthHandler{redisClient: redisClient, api: api}
}

// liveness reports that the process is up. It checks nothing external.
func (handler *healthHandler) liveness(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, r, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

// readiness verifies both dependencies: the session store and the mining
// API. Either failing means the gateway cannot serve logins, so it reports
// 503 and lets the orchestrator hold traffic.
func (handler *healthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{"redis": "ok", "upstream": "ok"}
	healthy := true

	if err := handler.redisClient.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}
	if err := handler.api.Ping(ctx); err != nil {
		checks["upstream"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	respond.JSON(w, r, status, map[string]any{
		constants.FieldStatus: state,
		constants.FieldChecks: checks,
	})
}
