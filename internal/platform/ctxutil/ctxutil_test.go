// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package ctxutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vetasur/minepanel/internal/session"
)

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestGetLoggerFallsBackToDefault(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	assert.Nil(t, GetSession(context.Background()))

	sess := &session.Session{ID: "sid-1", Role: session.RoleAdmin, Username: "admin1"}
	ctx := WithSession(context.Background(), sess)
	assert.Same(t, sess, GetSession(ctx))
}
