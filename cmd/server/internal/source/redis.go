package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

const quoteCacheKey = "hyperpulse:tokens"

// RedisClient is the slice of go-redis used by the cache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Compile-time check to ensure *redis.Client implements RedisClient
var _ RedisClient = (*redis.Client)(nil)

// CacheSource keeps the inner source's listing in redis so repeated
// requests do not re-run the fetch command. Redis failures degrade to a
// direct fetch; the cache never introduces errors of its own.
type CacheSource struct {
	client RedisClient
	inner  QuoteSource
	ttl    time.Duration
	logger *zap.Logger
}

func NewCache(client RedisClient, inner QuoteSource, ttl time.Duration, logger *zap.Logger) *CacheSource {
	return &CacheSource{
		client: client,
		inner:  inner,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CacheSource) Fetch(ctx context.Context) ([]models.TokenQuote, error) {
	payload, err := c.client.Get(ctx, quoteCacheKey).Result()
	if err == nil {
		var quotes []models.TokenQuote
		if err := json.Unmarshal([]byte(payload), &quotes); err == nil && len(quotes) > 0 {
			return quotes, nil
		}
		// Corrupt entry: fall through and refresh it.
	} else if err != redis.Nil {
		c.logger.Warn("Quote cache read failed", zap.Error(err))
	}

	quotes, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(quotes); err == nil {
		// TTL keeps a dead fetch command from pinning stale prices forever.
		if err := c.client.Set(ctx, quoteCacheKey, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("Quote cache write failed", zap.Error(err))
		}
	}
	return quotes, nil
}
