package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Aryasuta/Elliptical-Backend/internal/config"
	"github.com/Aryasuta/Elliptical-Backend/internal/log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	newPoolFn  = pgxpool.NewWithConfig
	pingPoolFn = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
	sleepFn    = sleepContext
)

// ConnectPostgres opens the pool and pings it, retrying DBConnectRetries times.
func ConnectPostgres(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = cfg.DBMaxConns
	}

	attempts := cfg.DBConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	logger := log.WithComponent("db")
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pool, err := connectOnce(ctx, poolCfg)
		if err == nil {
			return pool, nil
		}
		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", attempts).Msg("postgres connection failed")

		if attempt < attempts {
			if err := sleepFn(ctx, cfg.DBRetryInterval); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("connect postgres after %d attempts: %w", attempts, lastErr)
}

func connectOnce(ctx context.Context, poolCfg *pgxpool.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := newPoolFn(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pingPoolFn(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
