// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vetasur/minepanel/internal/platform/constants"
)

// RedisTokenRepository implements [TokenRepository] on Redis.
//
// Layout: two plain string keys per session,
//
//	session:{sid}:accessToken
//	session:{sid}:refreshToken
//
// both carrying the same TTL so an abandoned pair ages out together.
type RedisTokenRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenRepository creates a Redis-backed [TokenRepository].
func NewRedisTokenRepository(client *redis.Client, ttl time.Duration) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, ttl: ttl}
}

func accessKey(sid string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixSession, sid, constants.RedisKeyAccessToken)
}

func refreshKey(sid string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixSession, sid, constants.RedisKeyRefreshToken)
}

// Save persists both tokens in one pipelined round trip.
func (repository *RedisTokenRepository) Save(ctx context.Context, sid string, pair TokenPair) error {
	pipe := repository.client.TxPipeline()
	pipe.Set(ctx, accessKey(sid), pair.Access, repository.ttl)
	pipe.Set(ctx, refreshKey(sid), pair.Refresh, repository.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}
	return nil
}

// SaveAccess rotates only the access token. KeepTTL preserves whatever
// lifetime the pair had left, so silent refresh never extends a session.
func (repository *RedisTokenRepository) SaveAccess(ctx context.Context, sid string, access string) error {
	if err := repository.client.Set(ctx, accessKey(sid), access, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("redis_session_rotate_failed: %w", err)
	}
	return nil
}

// Load returns the stored pair. A missing access token yields [ErrNoSession];
// a missing refresh token alone is tolerated (the pair simply cannot be
// silently refreshed).
func (repository *RedisTokenRepository) Load(ctx context.Context, sid string) (TokenPair, error) {
	access, err := repository.client.Get(ctx, accessKey(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TokenPair{}, ErrNoSession
		}
		return TokenPair{}, fmt.Errorf("redis_session_load_failed: %w", err)
	}

	refresh, err := repository.client.Get(ctx, refreshKey(sid)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return TokenPair{}, fmt.Errorf("redis_session_load_failed: %w", err)
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Delete erases both keys. Redis DEL of absent keys is a no-op, which gives
// the idempotent sign-out the store requires.
func (repository *RedisTokenRepository) Delete(ctx context.Context, sid string) error {
	if err := repository.client.Del(ctx, accessKey(sid), refreshKey(sid)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
