package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/storefront/backend/internal/domain/shared"
)

// RedisSubmissionGuard implements SubmissionGuard using Redis
// This is suitable for distributed deployments where a session's requests
// may reach different instances
type RedisSubmissionGuard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSubmissionGuard creates a guard with an existing Redis client
func NewRedisSubmissionGuard(client *redis.Client, keyPrefix string) *RedisSubmissionGuard {
	if keyPrefix == "" {
		keyPrefix = "storefront:"
	}
	return &RedisSubmissionGuard{
		client:    client,
		keyPrefix: keyPrefix + "checkout:busy:",
	}
}

// Acquire marks key as busy for ttl
// Uses SETNX (SET if Not eXists) so only one caller wins
func (g *RedisSubmissionGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := g.client.SetNX(ctx, g.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache: failed to acquire submission guard: %w", err)
	}
	return acquired, nil
}

// Release clears the busy flag for key
func (g *RedisSubmissionGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, g.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache: failed to release submission guard: %w", err)
	}
	return nil
}

// Close is a no-op; the shared client is closed by its owner
func (g *RedisSubmissionGuard) Close() error {
	return nil
}

// Ensure RedisSubmissionGuard implements SubmissionGuard
var _ shared.SubmissionGuard = (*RedisSubmissionGuard)(nil)
