package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const snapshotKey = "helpdesk:stats:snapshot"

// SnapshotCache keeps the last computed stats snapshot in redis for a short
// TTL. Every failure degrades to recomputation, never to a request failure.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotCache builds the cache. A nil client disables caching.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SnapshotCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached snapshot when present and fresh.
func (c *SnapshotCache) Get(ctx context.Context) (*Snapshot, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		c.logger.Debug("stats cache entry malformed", zap.Error(err))
		return nil, false
	}
	return &snapshot, true
}

// Set stores the snapshot with the configured TTL.
func (c *SnapshotCache) Set(ctx context.Context, snapshot *Snapshot) {
	if c == nil || snapshot == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.Debug("stats cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
