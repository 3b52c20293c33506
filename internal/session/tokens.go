// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package session

import (
	"context"
	"errors"
)

// TokenPair is the durable state of one browser session: the two raw token
// strings issued by the upstream API. They are persisted together and erased
// together — a session either has both or is absent.
type TokenPair struct {
	Access  string
	Refresh string
}

// ErrNoSession is returned by [TokenRepository.Load] when no access token is
// stored for the session id. Absence of the access token is the sole signal
// consulted to distinguish "never logged in" from "resumable".
var ErrNoSession = errors.New("session: no stored tokens")

// TokenRepository abstracts the durable storage of the token pair.
//
// # Why an interface?
//
// Production uses Redis; tests use an in-memory map. The store's lifecycle
// rules (always write both, always erase both) are enforced above this
// interface, so implementations stay dumb key-value plumbing.
type TokenRepository interface {
	// Save persists both tokens of a session atomically.
	Save(ctx context.Context, sid string, pair TokenPair) error

	// SaveAccess replaces only the access token, preserving the refresh
	// token and the session's remaining TTL. Used by silent refresh.
	SaveAccess(ctx context.Context, sid string, access string) error

	// Load returns the stored pair, or [ErrNoSession] when no access token
	// exists for sid.
	Load(ctx context.Context, sid string) (TokenPair, error)

	// Delete erases both tokens. Deleting an absent session is not an error.
	Delete(ctx context.Context, sid string) error
}
