package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"session-gate/internal/routing"
	"session-gate/pkg/logger"
)

// DefaultTTL bounds how long a membership answer is reused
const DefaultTTL = 5 * time.Minute

// AllowlistCache is a read-through cache in front of an allowlist source.
// Redis failures degrade to the inner source; only inner errors surface
// to callers.
type AllowlistCache struct {
	redis *redis.Client
	inner routing.Allowlist
	ttl   time.Duration
	log   *logger.Logger
}

// NewAllowlistCache wraps inner with a Redis-backed cache
func NewAllowlistCache(redisClient *redis.Client, inner routing.Allowlist, ttl time.Duration, log *logger.Logger) *AllowlistCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &AllowlistCache{
		redis: redisClient,
		inner: inner,
		ttl:   ttl,
		log:   log.WithComponent("cache"),
	}
}

func (c *AllowlistCache) key(email string) string {
	return "allowlist:" + email
}

// Contains reports whether an email is allowlisted, answering from Redis
// when a fresh entry exists
func (c *AllowlistCache) Contains(ctx context.Context, email string) (bool, error) {
	val, err := c.redis.Get(ctx, c.key(email)).Result()
	if err == nil {
		return val == "1", nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Debug("allowlist cache read failed: %v", err)
	}

	found, err := c.inner.Contains(ctx, email)
	if err != nil {
		// Do not cache failures; the next request should retry the source.
		return false, err
	}

	cached := "0"
	if found {
		cached = "1"
	}
	if err := c.redis.Set(ctx, c.key(email), cached, c.ttl).Err(); err != nil {
		c.log.Debug("allowlist cache write failed: %v", err)
	}

	return found, nil
}

// Invalidate drops any cached answer for an email
func (c *AllowlistCache) Invalidate(ctx context.Context, email string) {
	if err := c.redis.Del(ctx, c.key(email)).Err(); err != nil {
		c.log.Debug("allowlist cache invalidation failed: %v", err)
	}
}
