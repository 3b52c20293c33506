// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package middleware provides the HTTP middleware chain of the gateway.

Architecture:

  - Correlation: every request gets a UUIDv7 request id, echoed back in the
    X-Request-ID header and attached to the request-scoped logger.
  - Observability: structured request logging with status, bytes and latency.
  - Protection: panic recovery and a per-IP token-bucket rate limiter.
  - Identity: session resolution from the sid cookie (see session.go).

Ordering matters: correlation and logging wrap everything, recovery sits
inside logging so panics are still logged, and the rate limiter runs before
any session or upstream work is done.
*/
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/constants"
	"github.com/vetasur/minepanel/internal/platform/ctxutil"
	"github.com/vetasur/minepanel/internal/platform/respond"
)

// RequestID assigns a UUIDv7 correlation id to each request, unless the
// client already supplied one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.HeaderXRequestID)
		if requestID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				id = uuid.New()
			}
			requestID = id.String()
		}

		w.Header().Set(constants.HeaderXRequestID, requestID)
		ctx := ctxutil.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StructuredLogger attaches a request-scoped logger to the context and emits
// one line per completed request.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestLogger := logger.With(slog.String("request_id", ctxutil.GetRequestID(r.Context())))
			ctx := ctxutil.WithLogger(r.Context(), requestLogger)

			wrapped := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			requestLogger.Info("request_completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.Status()),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recover converts panics into 500 responses and logs the stack trace.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				ctxutil.GetLogger(r.Context()).Error("panic_recovered",
					slog.Any("panic", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				respond.Error(w, r, apperr.Internal(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token-bucket limit per client IP. Idle clients are
// evicted on a background ticker to bound memory.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
}

// NewRateLimiter constructs a [RateLimiter] and starts its cleanup loop,
// which runs until stop is closed.
func NewRateLimiter(rps float64, burst int, stop <-chan struct{}) *RateLimiter {
	limiter := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	go limiter.cleanupLoop(stop)
	return limiter
}

// Handler is the middleware entry point.
func (limiter *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.allow(clientIP(r)) {
			respond.Error(w, r, apperr.RateLimited("Too many requests, slow down"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (limiter *RateLimiter) allow(ip string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	client, ok := limiter.clients[ip]
	if !ok {
		client = &rateLimitClient{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

func (limiter *RateLimiter) cleanupLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(constants.RateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			limiter.mu.Lock()
			for ip, client := range limiter.clients {
				if time.Since(client.lastSeen) > constants.RateLimitClientTTL {
					delete(limiter.clients, ip)
				}
			}
			limiter.mu.Unlock()
		}
	}
}

// clientIP extracts the remote address, trusting proxy headers when present.
func clientIP(r *http.Request) string {
	if realIP := r.Header.Get(constants.HeaderXRealIP); realIP != "" {
		return realIP
	}
	if forwarded := r.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
