package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Option configures a connection pool.
type Option func(*options)

type options struct {
	maxConns        int32
	minConns        int32
	maxConnIdleTime time.Duration
	maxConnLifetime time.Duration
	retryAttempts   int
	retryInterval   time.Duration
}

func defaultOptions() *options {
	return &options{
		maxConns:        10,
		minConns:        2,
		maxConnIdleTime: 10 * time.Minute,
		maxConnLifetime: 30 * time.Minute,
		retryAttempts:   3,
		retryInterval:   2 * time.Second,
	}
}

// WithMaxConns sets the maximum pool size.
// Default: 10
func WithMaxConns(n int32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = n
		}
	}
}

// WithMinConns sets the number of connections kept open.
// Default: 2
func WithMinConns(n int32) Option {
	return func(o *options) {
		o.minConns = max(n, 0)
	}
}

// WithMaxConnIdleTime closes connections idle for longer than d.
// Default: 10 minutes
func WithMaxConnIdleTime(d time.Duration) Option {
	return func(o *options) {
		o.maxConnIdleTime = d
	}
}

// WithMaxConnLifetime recycles connections older than d.
// Default: 30 minutes
func WithMaxConnLifetime(d time.Duration) Option {
	return func(o *options) {
		o.maxConnLifetime = d
	}
}

// WithRetry configures startup retries. Attempt i waits i*interval.
// Default: 3 attempts, 2 seconds.
func WithRetry(attempts int, interval time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryInterval = interval
	}
}

// Open creates a pgx pool and verifies it with a ping, retrying transient
// failures.
//
// Example:
//
//	pool, err := db.Open(ctx, os.Getenv("DATABASE_URL"),
//	    db.WithMaxConns(20),
//	    db.WithRetry(5, time.Second),
//	)
func Open(ctx context.Context, url string, opts ...Option) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}
	poolCfg.MaxConns = o.maxConns
	poolCfg.MinConns = min(o.minConns, o.maxConns)
	poolCfg.MaxConnIdleTime = o.maxConnIdleTime
	poolCfg.MaxConnLifetime = o.maxConnLifetime

	var lastErr error
	for i := range max(o.retryAttempts, 1) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrConnectionFailed, ctx.Err())
			case <-time.After(time.Duration(i) * o.retryInterval):
			}
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			lastErr = err
			continue
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			lastErr = err
			continue
		}

		return pool, nil
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Shutdown returns a hook that closes the pool.
func Shutdown(pool *pgxpool.Pool) func(context.Context) error {
	return func(context.Context) error {
		pool.Close()
		return nil
	}
}
