// Package cache wraps the Redis client used for short-lived shared state:
// revoked session tokens and booking locks.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Connect parses a redis:// URL and pings the server, retrying a few times so
// the API can start alongside a Redis container that is still booting.
func Connect(ctx context.Context, url string, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	const maxRetries = 5
	client := redis.NewClient(opts)
	for i := 1; ; i++ {
		err = client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		if i == maxRetries {
			break
		}
		logger.Warn().Err(err).Int("attempt", i).Msg("redis not ready, retrying")
		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(i) * time.Second):
		}
	}
	client.Close()
	return nil, fmt.Errorf("ping redis after %d attempts: %w", maxRetries, err)
}
