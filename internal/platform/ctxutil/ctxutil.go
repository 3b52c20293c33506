// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package ctxutil provides typed accessors for request-scoped values.
//
// All context values flow through this package so that the keys in
// [ctxkey] stay an implementation detail. Getters degrade gracefully:
// a missing logger falls back to slog.Default and a missing session
// resolves to nil, which callers treat as anonymous.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/vetasur/minepanel/internal/platform/ctxkey"
	"github.com/vetasur/minepanel/internal/session"
)

// WithRequestID stores the request correlation ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, requestID)
}

// GetRequestID returns the request correlation ID, or "" when absent.
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return requestID
}

// WithLogger stores a request-scoped logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to the
// process-wide default so callers never need a nil check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithSession stores the resolved session in the context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, sess)
}

// GetSession returns the resolved session, or nil for anonymous requests.
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ctxkey.KeySession).(*session.Session)
	return sess
}
