package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"payyourfriends/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*AnalyticsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAnalyticsCache(client, time.Minute, discardLogger()), mr
}

func TestAnalyticsCacheHitAndInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	asOf := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	calls := 0
	loader := func(context.Context) (models.Analytics, error) {
		calls++
		return models.Analytics{TotalIncomplete: calls}, nil
	}

	first, err := cache.Fetch(ctx, "flat", asOf, loader)
	require.NoError(t, err)
	second, err := cache.Fetch(ctx, "flat", asOf, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first.TotalIncomplete, second.TotalIncomplete)

	cache.Invalidate(ctx, "flat")
	third, err := cache.Fetch(ctx, "flat", asOf, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, third.TotalIncomplete)

	// Other groups and days are cached separately.
	_, err = cache.Fetch(ctx, "other", asOf, loader)
	require.NoError(t, err)
	_, err = cache.Fetch(ctx, "flat", asOf.AddDate(0, 0, 1), loader)
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestAnalyticsCacheFallsBackWhenRedisIsDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	calls := 0
	loader := func(context.Context) (models.Analytics, error) {
		calls++
		return models.Analytics{}, nil
	}
	_, err := cache.Fetch(context.Background(), "flat", time.Now(), loader)
	require.NoError(t, err)
	_, err = cache.Fetch(context.Background(), "flat", time.Now(), loader)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestNilAnalyticsCache(t *testing.T) {
	var cache *AnalyticsCache
	boom := errors.New("boom")
	_, err := cache.Fetch(context.Background(), "flat", time.Now(), func(context.Context) (models.Analytics, error) {
		return models.Analytics{}, boom
	})
	assert.ErrorIs(t, err, boom)
	cache.Invalidate(context.Background(), "flat")
}
