package postgres

import (
	"log/slog"

	"github.com/dmitrymomot/sluggable"
)

// Option configures a Store.
type Option func(*Store)

// WithKeyColumn sets the primary key column. Default: "id".
func WithKeyColumn(col string) Option {
	return func(s *Store) {
		if col != "" {
			s.keyColumn = col
		}
	}
}

// WithKeyFunc generates keys for new records. Default: id.NewULID.
func WithKeyFunc(fn func() any) Option {
	return func(s *Store) {
		if fn != nil {
			s.newKey = fn
		}
	}
}

// WithSlugger sets the slugger Save uses. Without one, Save stores the slug
// field as given.
func WithSlugger(sl *sluggable.Slugger) Option {
	return func(s *Store) {
		s.slugger = sl
	}
}

// WithMaxRetries bounds how often Save re-derives a slug after a unique
// violation. Default: 5.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		s.maxRetries = max(n, 0)
	}
}

// WithSlugConstraint restricts retries to unique violations of the named
// constraint. By default a violation is retried when its detail names the
// slug column, which covers single-column unique indexes.
func WithSlugConstraint(name string) Option {
	return func(s *Store) {
		s.constraint = name
	}
}

// WithColumns limits the attributes written by Save to cols. By default
// every attribute is written.
func WithColumns(cols ...string) Option {
	return func(s *Store) {
		s.columns = append([]string(nil), cols...)
	}
}

// WithLogger logs slug retries at Warn. Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
