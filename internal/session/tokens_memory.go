// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package session

import (
	"context"
	"sync"
)

// MemoryTokenRepository is an in-process [TokenRepository] used by tests and
// local development without Redis. TTLs are not simulated.
type MemoryTokenRepository struct {
	mu    sync.Mutex
	pairs map[string]TokenPair
}

// NewMemoryTokenRepository creates an empty in-memory [TokenRepository].
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{pairs: make(map[string]TokenPair)}
}

func (repository *MemoryTokenRepository) Save(_ context.Context, sid string, pair TokenPair) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.pairs[sid] = pair
	return nil
}

func (repository *MemoryTokenRepository) SaveAccess(_ context.Context, sid string, access string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	pair, ok := repository.pairs[sid]
	if !ok {
		return ErrNoSession
	}
	pair.Access = access
	repository.pairs[sid] = pair
	return nil
}

func (repository *MemoryTokenRepository) Load(_ context.Context, sid string) (TokenPair, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	pair, ok := repository.pairs[sid]
	if !ok || pair.Access == "" {
		return TokenPair{}, ErrNoSession
	}
	return pair, nil
}

func (repository *MemoryTokenRepository) Delete(_ context.Context, sid string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.pairs, sid)
	return nil
}
