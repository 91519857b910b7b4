package server

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/casira/connect/internal/platform/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pingRetry bounds how long startup waits for the database
type pingRetry struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

var startupRetry = pingRetry{attempts: 6, initial: 500 * time.Millisecond, max: 8 * time.Second}

type pinger interface {
	Ping(ctx context.Context) error
}

// ConnectDatabase opens the pool and waits for the database to answer. The
// returned cleanup closes the pool.
func ConnectDatabase(ctx context.Context, config Config, clk clock.Clock, log logger.Logger) (*pgxpool.Pool, func(), error) {
	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		log.Error(ctx, "failed to parse database URL", "error", err)
		return nil, nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = config.DatabaseMaxConns
	poolConfig.MinConns = min(2, config.DatabaseMaxConns)
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	log.Debug(ctx, "database pool configuration",
		"max_conns", poolConfig.MaxConns,
		"min_conns", poolConfig.MinConns,
		"max_conn_lifetime", poolConfig.MaxConnLifetime,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error(ctx, "failed to create connection pool", "error", err)
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := waitForDatabase(ctx, pool, clk, startupRetry, log); err != nil {
		pool.Close()
		log.Error(ctx, "database unreachable", "error", err)
		return nil, nil, err
	}
	log.Info(ctx, "database connection established")

	cleanup := func() {
		log.Info(context.Background(), "closing database connection pool")
		pool.Close()
	}
	return pool, cleanup, nil
}

// waitForDatabase pings with exponential backoff until the database answers
func waitForDatabase(ctx context.Context, db pinger, clk clock.Clock, retry pingRetry, log logger.Logger) error {
	backoff := retry.initial
	for attempt := 1; ; attempt++ {
		err := db.Ping(ctx)
		if err == nil {
			return nil
		}
		if attempt >= retry.attempts {
			return fmt.Errorf("ping database after %d attempts: %w", attempt, err)
		}

		log.Warn(ctx, "database not ready, retrying",
			"attempt", attempt,
			"retry_in", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clk.After(backoff):
		}
		backoff = min(backoff*2, retry.max)
	}
}
