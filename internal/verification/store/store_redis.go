package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rezo/pkg/platform/sentinel"
)

const (
	codeKeyPrefix     = "verify:code:"
	cooldownKeyPrefix = "verify:cooldown:"
)

// RedisStore is the production CodeStore. Redis key expiry is the single
// source of truth for both code TTL and resend cooldown, so state survives
// process restarts and is shared across instances.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed verification code store.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, codeKeyPrefix+email, codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	return nil
}

func (s *RedisStore) GetCode(ctx context.Context, email string) (string, error) {
	hash, err := s.client.Get(ctx, codeKeyPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get verification code: %w", err)
	}
	return hash, nil
}

func (s *RedisStore) DeleteCode(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, codeKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

func (s *RedisStore) TryAcquireCooldown(ctx context.Context, email string, d time.Duration) (bool, error) {
	// SETNX with expiry: the marker's remaining lifetime is the cooldown.
	ok, err := s.client.SetNX(ctx, cooldownKeyPrefix+email, "1", d).Result()
	if err != nil {
		return false, fmt.Errorf("acquire resend cooldown: %w", err)
	}
	return ok, nil
}
