package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"payyourfriends/models"

	"github.com/redis/go-redis/v9"
)

// AnalyticsCache keeps computed analytics in Redis. Each group has a version
// counter that is bumped on every write, which orphans older entries.
// A nil cache or nil client computes on every call.
type AnalyticsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewAnalyticsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *AnalyticsCache {
	return &AnalyticsCache{client: client, ttl: ttl, logger: logger}
}

func versionKey(group string) string {
	return "analytics:version:" + group
}

func (c *AnalyticsCache) version(ctx context.Context, group string) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(group)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// Fetch returns cached analytics for group on asOf's day, computing and
// storing them with loader on a miss. Redis failures fall back to loader.
func (c *AnalyticsCache) Fetch(ctx context.Context, group string, asOf time.Time, loader func(context.Context) (models.Analytics, error)) (models.Analytics, error) {
	if c == nil || c.client == nil {
		return loader(ctx)
	}

	ver, err := c.version(ctx, group)
	if err != nil {
		c.logger.WarnContext(ctx, "analytics cache unavailable", "group", group, "error", err)
		return loader(ctx)
	}
	key := fmt.Sprintf("analytics:%s:%d:%s", group, ver, models.NewDate(asOf))

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached models.Analytics
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "analytics cache read failed", "key", key, "error", err)
	}

	value, err := loader(ctx)
	if err != nil {
		return models.Analytics{}, err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "analytics cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// Invalidate bumps the group's version so the next Fetch recomputes.
func (c *AnalyticsCache) Invalidate(ctx context.Context, group string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, versionKey(group)).Err(); err != nil {
		c.logger.WarnContext(ctx, "analytics cache invalidate failed", "group", group, "error", err)
	}
}
