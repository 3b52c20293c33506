// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package session owns the authenticated-session lifecycle of the dashboard.

It is the single source of truth for "who is logged in": it persists the
upstream token pair, decodes routing claims from the access token, performs
the silent refresh, and destroys the session on any token fault.

Architecture:

  - Store: Orchestrates resume/refresh/login/sign-out over a [TokenRepository].
  - Repository: Redis in production, in-memory in tests.
  - Exchange: the refresh round trip is delegated to the upstream client via
    the [TokenExchanger] interface.

Failure semantics are deliberately absolute: a token that is unparsable,
missing claims, or expired always destroys the whole session. There is no
partial-trust state and no retry policy — a failed refresh is a hard sign-out.
*/
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TokenExchanger trades a refresh token for a new access token at the
// upstream `token/refresh/` endpoint.
type TokenExchanger interface {
	ExchangeRefresh(ctx context.Context, refreshToken string) (string, error)
}

// Session is the resolved identity of one browser session. Role and Username
// are the most recently decoded claims — advisory for routing, nothing more.
type Session struct {
	ID       string `json:"-"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

// Store implements the session lifecycle.
type Store struct {
	tokens    TokenRepository
	exchanger TokenExchanger
	logger    *slog.Logger
	now       func() time.Time

	// generations guards against a stale silent-refresh response overwriting
	// a session that was re-established (or destroyed) while the exchange was
	// in flight: latest-issued-wins.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewStore constructs a [Store] with its dependencies injected.
func NewStore(tokens TokenRepository, exchanger TokenExchanger, logger *slog.Logger) *Store {
	return &Store{
		tokens:      tokens,
		exchanger:   exchanger,
		logger:      logger,
		now:         time.Now,
		generations: make(map[string]uint64),
	}
}

// refreshTimeout caps the background silent-refresh exchange, which outlives
// the request that triggered it.
const refreshTimeout = 10 * time.Second

// # Lifecycle Operations

// Resolve loads and decodes the session synchronously, with no side effects
// beyond destruction of a corrupted or expired one. It is called on every
// request by the session middleware.
//
// A nil Session with a nil error means "not logged in" — absence is a state,
// not a failure. Errors are reserved for storage outages.
func (store *Store) Resolve(ctx context.Context, sid string) (*Session, error) {
	sess, _, err := store.resolve(ctx, sid)
	return sess, err
}

// Resume is Resolve plus the app-bootstrap side effect: when the resolved
// session carries a refresh token, exactly one silent refresh is fired in the
// background, pre-emptively rotating the access token on every dashboard load.
func (store *Store) Resume(ctx context.Context, sid string) (*Session, error) {
	sess, pair, err := store.resolve(ctx, sid)
	if err != nil || sess == nil {
		return sess, err
	}

	if pair.Refresh != "" {
		// Fire-and-forget. The exchange must survive the request context,
		// so detach cancellation and apply its own deadline.
		background := context.WithoutCancel(ctx)
		go func() {
			refreshCtx, cancel := context.WithTimeout(background, refreshTimeout)
			defer cancel()
			if err := store.Refresh(refreshCtx, sid); err != nil {
				store.logger.Warn("silent_refresh_failed", slog.Any("error", err))
			}
		}()
	}

	return sess, nil
}

// Refresh exchanges the stored refresh token for a new access token and
// persists it. On any failure — network error or server rejection, the two
// are indistinguishable by design — the session is destroyed: a hard
// sign-out with no backoff or retry.
func (store *Store) Refresh(ctx context.Context, sid string) error {
	pair, err := store.tokens.Load(ctx, sid)
	if err != nil {
		if err == ErrNoSession {
			return nil
		}
		return err
	}
	if pair.Refresh == "" {
		return nil
	}

	generation := store.generation(sid)

	access, err := store.exchanger.ExchangeRefresh(ctx, pair.Refresh)
	if err != nil {
		if store.generation(sid) == generation {
			store.destroy(ctx, sid, "refresh_rejected")
		}
		return fmt.Errorf("session_refresh_failed: %w", err)
	}

	// A newer login or sign-out raced past this exchange; its tokens win.
	if store.generation(sid) != generation {
		store.logger.Debug("silent_refresh_discarded", slog.String("sid", sid))
		return nil
	}

	if err := store.tokens.SaveAccess(ctx, sid, access); err != nil {
		return err
	}

	store.logger.Debug("access_token_rotated", slog.String("sid", sid))
	return nil
}

// Login persists both tokens and adopts the claims of the freshly issued
// access token. A malformed token from a successful login is not recovered
// from — the upstream is assumed to issue well-formed tokens here.
func (store *Store) Login(ctx context.Context, sid, access, refresh string) (*Session, error) {
	store.bump(sid)

	claims, err := DecodeClaims(access)
	if err != nil {
		return nil, err
	}

	if err := store.tokens.Save(ctx, sid, TokenPair{Access: access, Refresh: refresh}); err != nil {
		return nil, err
	}

	store.logger.Info("session_established",
		slog.String("username", claims.Username),
		slog.String("role", claims.Role),
	)

	return &Session{ID: sid, Role: Role(claims.Role), Username: claims.Username}, nil
}

// SignOut erases both persisted tokens. It is synchronous, issues no upstream
// call, and is idempotent — signing out twice lands in the same state.
func (store *Store) SignOut(ctx context.Context, sid string) error {
	store.bump(sid)
	return store.tokens.Delete(ctx, sid)
}

// AccessToken reads the current access token at call time. It backs the
// token provider injected into the upstream client, so every proxied request
// picks up whatever token the latest login or refresh left behind.
func (store *Store) AccessToken(ctx context.Context, sid string) (string, error) {
	pair, err := store.tokens.Load(ctx, sid)
	if err != nil {
		return "", err
	}
	return pair.Access, nil
}

// # Internals

// resolve is the shared synchronous path of Resolve and Resume.
func (store *Store) resolve(ctx context.Context, sid string) (*Session, TokenPair, error) {
	if sid == "" {
		return nil, TokenPair{}, nil
	}

	pair, err := store.tokens.Load(ctx, sid)
	if err != nil {
		if err == ErrNoSession {
			return nil, TokenPair{}, nil
		}
		return nil, TokenPair{}, err
	}

	claims, err := DecodeClaims(pair.Access)
	if err != nil {
		// Corrupted token: destructive — both tokens are erased.
		store.destroy(ctx, sid, "token_corrupted")
		return nil, TokenPair{}, nil
	}

	if claims.Expired(store.now()) {
		store.destroy(ctx, sid, "token_expired")
		return nil, TokenPair{}, nil
	}

	sess := &Session{ID: sid, Role: Role(claims.Role), Username: claims.Username}
	if !sess.Role.Known() {
		store.logger.Warn("unknown_role_claimed",
			slog.String("role", claims.Role),
			slog.String("username", claims.Username),
		)
	}
	return sess, pair, nil
}

// destroy erases the pair and logs why. Deletion failures are logged and
// swallowed: the session is already unusable either way.
func (store *Store) destroy(ctx context.Context, sid string, reason string) {
	store.bump(sid)
	if err := store.tokens.Delete(ctx, sid); err != nil {
		store.logger.Error("session_delete_failed",
			slog.String("reason", reason),
			slog.Any("error", err),
		)
		return
	}
	store.logger.Info("session_cleared", slog.String("reason", reason))
}

func (store *Store) generation(sid string) uint64 {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.generations[sid]
}

func (store *Store) bump(sid string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.generations[sid]++
}
