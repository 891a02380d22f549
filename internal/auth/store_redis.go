// Copyright (c) 2026 DevHive. All rights reserved.
// Author: platform@devhive.dev

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devhive/devhive/internal/platform/apperr"
	"github.com/devhive/devhive/internal/platform/constants"
)

// RedisResetTokenStore keeps hashed password-reset tokens in Redis.
//
// Redis owns expiry: every entry is written with a TTL, so stale tokens
// vanish without a cleanup job and never touch the primary database.
type RedisResetTokenStore struct {
	client *redis.Client
}

// NewRedisResetTokenStore constructs a [RedisResetTokenStore].
func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

// Save stores tokenHash→userID for the given lifetime.
func (store *RedisResetTokenStore) Save(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	key := constants.RedisPrefixResetToken + tokenHash

	if err := store.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("reset_token_store_save_failed: %w", err)
	}

	return nil
}

// Consume atomically fetches and deletes the user ID for a token hash.
//
// GETDEL makes redemption single-use even under concurrent attempts: exactly
// one caller sees the value.
func (store *RedisResetTokenStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	key := constants.RedisPrefixResetToken + tokenHash

	userID, err := store.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("ResetToken")
		}
		return "", fmt.Errorf("reset_token_store_consume_failed: %w", err)
	}

	return userID, nil
}
