package db

import "time"

// Config holds PostgreSQL settings for services that load configuration from
// the environment (see pkg/config).
type Config struct {
	URL             string        `env:"DATABASE_URL,required"`
	MigrationsTable string        `env:"DATABASE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
	MaxConns        int32         `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"DATABASE_MIN_CONNS" envDefault:"2"`
	MaxConnIdleTime time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
	RetryAttempts   int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"2s"`
}

// Options converts cfg into Open options.
func (cfg Config) Options() []Option {
	return []Option{
		WithMaxConns(cfg.MaxConns),
		WithMinConns(cfg.MinConns),
		WithMaxConnIdleTime(cfg.MaxConnIdleTime),
		WithMaxConnLifetime(cfg.MaxConnLifetime),
		WithRetry(cfg.RetryAttempts, cfg.RetryInterval),
	}
}
