package service

import (
	"context"
	"time"

	"github.com/nord-digital/userdir/internal/constants"
	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/nord-digital/userdir/pkg/redis"
)

// TokenCache maps access tokens to account IDs in Redis. Only the binding
// is cached; the account record itself is always re-read from the store so
// blocks and profile edits take effect immediately.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenCache(client *redis.Client, ttl time.Duration) *TokenCache {
	return &TokenCache{client: client, ttl: ttl}
}

func (c *TokenCache) key(token string) string {
	return constants.CacheKeyToken + token
}

// Lookup returns the cached account ID for a token, or "" on a miss.
func (c *TokenCache) Lookup(ctx context.Context, token string) string {
	if c == nil || c.client == nil {
		return ""
	}

	id, err := c.client.Get(ctx, c.key(token))
	if err != nil {
		if err != redis.ErrCacheMiss {
			logger.WarnWithContext(ctx, "Token cache lookup failed").
				Err(err).
				Log()
		}
		return ""
	}
	return id
}

func (c *TokenCache) Store(ctx context.Context, token, userID string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Set(ctx, c.key(token), userID, c.ttl); err != nil {
		logger.WarnWithContext(ctx, "Token cache store failed").
			Err(err).
			Log()
	}
}

func (c *TokenCache) Invalidate(ctx context.Context, token string) {
	if c == nil || c.client == nil || token == "" {
		return
	}

	if err := c.client.Del(ctx, c.key(token)); err != nil {
		logger.WarnWithContext(ctx, "Token cache invalidation failed").
			Err(err).
			Log()
	}
}
