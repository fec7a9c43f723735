package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/telecom-ops/admin-console/internal/domain"
)

// RedisTokenStore keeps the session token under a single Redis key.
type RedisTokenStore struct {
	client *redis.Client
	key    string
}

// NewRedisTokenStore stores the token at "<prefix>:<tokenKey>".
func NewRedisTokenStore(client *redis.Client, prefix, tokenKey string) *RedisTokenStore {
	key := tokenKey
	if prefix != "" {
		key = prefix + ":" + tokenKey
	}
	return &RedisTokenStore{client: client, key: key}
}

// Key returns the Redis key holding the token.
func (s *RedisTokenStore) Key() string {
	return s.key
}

// Load reads the token key. redis.Nil maps to domain.ErrNoToken.
func (s *RedisTokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

// Save sets the token key without expiry.
func (s *RedisTokenStore) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

// Delete removes the token key.
func (s *RedisTokenStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete token: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
