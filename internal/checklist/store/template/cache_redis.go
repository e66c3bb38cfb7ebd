package template

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"docket/internal/checklist/metrics"
	"docket/internal/checklist/models"
	"docket/pkg/platform/circuit"
)

const activeTemplatesKey = "docket:templates:active"

// Source is the repository a cache reads through to.
type Source interface {
	ListActiveTemplates(ctx context.Context) ([]models.RequirementTemplate, error)
}

// RedisCache is a read-through cache for the active rule set. Templates are
// read-mostly, so every replica can share one cached copy for ttl.
// Redis failures degrade to reading the source. With a breaker attached,
// repeated failures stop the cache from being consulted until a trial
// succeeds.
type RedisCache struct {
	client  *redis.Client
	source  Source
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	breaker *circuit.Breaker
}

type CacheOption func(*RedisCache)

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

func WithCacheMetrics(m *metrics.Metrics) CacheOption {
	return func(c *RedisCache) {
		c.metrics = m
	}
}

func WithCacheBreaker(b *circuit.Breaker) CacheOption {
	return func(c *RedisCache) {
		c.breaker = b
	}
}

func NewRedisCache(client *redis.Client, source Source, ttl time.Duration, opts ...CacheOption) *RedisCache {
	c := &RedisCache{client: client, source: source, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *RedisCache) ListActiveTemplates(ctx context.Context) ([]models.RequirementTemplate, error) {
	if !c.allow() {
		c.metrics.RecordCacheMiss()
		return c.source.ListActiveTemplates(ctx)
	}

	cached, err := c.client.Get(ctx, activeTemplatesKey).Bytes()
	switch {
	case err == nil:
		c.recordSuccess(ctx)
		var templates []models.RequirementTemplate
		jsonErr := json.Unmarshal(cached, &templates)
		if jsonErr == nil {
			c.metrics.RecordCacheHit()
			return templates, nil
		}
		c.warn(ctx, "discarding undecodable template cache entry", jsonErr)
	case errors.Is(err, redis.Nil):
		c.recordSuccess(ctx)
	default:
		c.warn(ctx, "template cache read failed", err)
		if c.recordFailure(ctx) {
			c.metrics.RecordCacheMiss()
			return c.source.ListActiveTemplates(ctx)
		}
	}
	c.metrics.RecordCacheMiss()

	templates, err := c.source.ListActiveTemplates(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(templates)
	if err != nil {
		c.warn(ctx, "failed to encode templates for cache", err)
		return templates, nil
	}
	if err := c.client.Set(ctx, activeTemplatesKey, payload, c.ttl).Err(); err != nil {
		c.warn(ctx, "template cache write failed", err)
	}
	return templates, nil
}

// Invalidate drops the cached rule set so the next read hits the source.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeTemplatesKey).Err()
}

func (c *RedisCache) allow() bool {
	return c.breaker == nil || c.breaker.Allow()
}

func (c *RedisCache) recordSuccess(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
		c.logger.InfoContext(ctx, "template cache circuit closed", "breaker", c.breaker.Name())
	}
}

// recordFailure reports whether the breaker is open after the failure.
func (c *RedisCache) recordFailure(ctx context.Context) bool {
	if c.breaker == nil {
		return false
	}
	open, change := c.breaker.RecordFailure()
	if change.Opened && c.logger != nil {
		c.logger.WarnContext(ctx, "template cache circuit opened", "breaker", c.breaker.Name())
	}
	return open
}

func (c *RedisCache) warn(ctx context.Context, msg string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "error", err)
	}
}
