package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campustrust/internal/platform/metrics"
	id "campustrust/pkg/domain"

	"github.com/redis/go-redis/v9"
)

// StatusCache keeps computed verification statuses in Redis for a short TTL.
// Staleness is bounded by the TTL; writes invalidate eagerly so a user who
// just verified a method sees the new score on the next read.
type StatusCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewStatusCache(client *redis.Client, ttl time.Duration, m *metrics.Metrics) *StatusCache {
	return &StatusCache{client: client, ttl: ttl, metrics: m}
}

func statusKey(userID id.UserID) string {
	return fmt.Sprintf("campustrust:status:%s", userID)
}

// Get returns the cached status, or nil on miss. Redis failures degrade to a
// miss; the caller recomputes.
func (c *StatusCache) Get(ctx context.Context, userID id.UserID) *Status {
	raw, err := c.client.Get(ctx, statusKey(userID)).Bytes()
	if err != nil {
		c.recordMiss()
		return nil
	}
	var status Status
	if err := json.Unmarshal(raw, &status); err != nil {
		c.recordMiss()
		return nil
	}
	c.recordHit()
	return &status
}

// Set caches the status. Failures are ignored; the cache is an optimization.
func (c *StatusCache) Set(ctx context.Context, status *Status) {
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	c.client.Set(ctx, statusKey(status.UserID), raw, c.ttl)
}

// Invalidate drops the cached status after a completion write.
func (c *StatusCache) Invalidate(ctx context.Context, userID id.UserID) {
	c.client.Del(ctx, statusKey(userID))
}

func (c *StatusCache) recordHit() {
	if c.metrics != nil {
		c.metrics.StatusCacheHits.Inc()
	}
}

func (c *StatusCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.StatusCacheMisses.Inc()
	}
}
