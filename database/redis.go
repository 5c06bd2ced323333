package database

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for redisURL, or nil when the URL is empty or
// the server does not answer. Callers treat nil as "run without cache".
func ConnectRedis(ctx context.Context, redisURL string, log *slog.Logger) *redis.Client {
	if redisURL == "" {
		log.Info("redis not configured, running without cache")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn("invalid redis url, running without cache", "error", err)
		return nil
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis not available, running without cache", "error", err)
		_ = client.Close()
		return nil
	}

	log.Info("redis connected", "addr", opts.Addr)
	return client
}
