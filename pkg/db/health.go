package db

import (
	"context"
	"errors"
)

// Pinger is implemented by *pgxpool.Pool and pgx connections.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a closure that pings the database.
func Healthcheck(p Pinger) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
