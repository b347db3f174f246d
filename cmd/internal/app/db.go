package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// dbBootPingTimeout bounds the connectivity proof at startup.
	dbBootPingTimeout = 3 * time.Second

	// dbReadyPingTimeout bounds the /readyz probe; readiness checks must
	// stay cheap under load.
	dbReadyPingTimeout = 2 * time.Second
)

// newDirectoryPool opens the pgx pool backing the Postgres user directory
// and proves connectivity before handing it out. The pool never runs DDL;
// schema management happens outside the process.
func newDirectoryPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.DBMaxConns > 0 {
		pcfg.MaxConns = cfg.DBMaxConns
	}
	if cfg.DBMinConns >= 0 {
		pcfg.MinConns = cfg.DBMinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	if err := pingPool(ctx, pool, dbBootPingTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return pool, nil
}

// pingPool round-trips the database within timeout.
func pingPool(parent context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	return pool.Ping(ctx)
}
