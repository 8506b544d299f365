package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 5 * time.Second

// Pool describes connection pool sizing. Zero values keep the pgx defaults.
type Pool struct {
	MaxConns     int32
	ConnIdleTime time.Duration
	ConnLifetime time.Duration
}

// Connect opens a pgx pool sized per opts and fails fast when the database
// is unreachable.
func Connect(ctx context.Context, dsn string, opts Pool) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.ConnIdleTime > 0 {
		cfg.MaxConnIdleTime = opts.ConnIdleTime
	}
	if opts.ConnLifetime > 0 {
		cfg.MaxConnLifetime = opts.ConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
