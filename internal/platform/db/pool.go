package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PoolOptions tunes the pgx pool and the startup connection retries.
type PoolOptions struct {
	MaxConns     int32
	MinConns     int32
	ConnectTries int
	RetryDelay   time.Duration
}

// NewPool connects to PostgreSQL, retrying the initial ping so the server can
// start alongside a database container that is still booting.
func NewPool(ctx context.Context, databaseURL string, opts PoolOptions, logger zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	tries := opts.ConnectTries
	if tries <= 0 {
		tries = 1
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	for attempt := 1; ; attempt++ {
		err = pool.Ping(ctx)
		if err == nil {
			return pool, nil
		}
		if attempt >= tries {
			break
		}
		logger.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", tries).Msg("database not ready, retrying")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("ping database: %w", err)
}
