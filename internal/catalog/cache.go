// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"scholarship-matcher/internal/common/logger"
	"scholarship-matcher/internal/common/metrics"
	"scholarship-matcher/internal/models"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey holds the JSON-encoded catalog snapshot.
const SnapshotKey = "catalog:snapshot"

// CachedSource keeps the unscored catalog in Redis for ttl. Scores are never
// cached. Redis failures fall through to the wrapped source.
type CachedSource struct {
	source Source
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSource(source Source, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		redis:  client,
		ttl:    ttl,
		logger: logger.ForComponent(log, "catalog-cache"),
	}
}

func (c *CachedSource) Name() string { return "cached-" + c.source.Name() }

func (c *CachedSource) Ping(ctx context.Context) error {
	return c.source.Ping(ctx)
}

func (c *CachedSource) FetchAll(ctx context.Context) ([]models.Scholarship, error) {
	if items, ok := c.lookup(ctx); ok {
		return items, nil
	}

	items, err := c.source.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, items)
	return items, nil
}

func (c *CachedSource) lookup(ctx context.Context) ([]models.Scholarship, bool) {
	data, err := c.redis.Get(ctx, SnapshotKey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed, using source", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	var items []models.Scholarship
	if err := json.Unmarshal(data, &items); err != nil {
		metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
	return items, true
}

func (c *CachedSource) store(ctx context.Context, items []models.Scholarship) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, SnapshotKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// Invalidate drops the cached snapshot so the next fetch reads the source.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, SnapshotKey).Err()
}
