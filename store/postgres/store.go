// Package postgres stores slugged records in a PostgreSQL table with pgx and
// squirrel.
//
// Collision checks run against committed rows, so two writers can pick the
// same slug. Put a unique index on the slug column; Save treats a violation
// as retryable and derives the slug again, which then sees the winner's row
// and moves to the next counter.
//
//	store := postgres.New(pool, "articles")
//	store.SetSlugger(sluggable.New(store, sluggable.WithDefaultOptions(opts)))
//	if err := store.Save(ctx, rec); err != nil {
//		return err
//	}
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/id"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

var (
	ErrNotFound       = errors.New("postgres: record not found")
	ErrSlugTaken      = errors.New("postgres: slug still taken after retries")
	ErrQueryFailed    = errors.New("postgres: query failed")
	ErrBuildStatement = errors.New("postgres: failed to build statement")
)

// DB is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Record is a sluggable.Record whose attributes map to table columns.
type Record interface {
	sluggable.Record
	Put(field string, value any)
	Attributes() map[string]any
	SyncOriginal()
}

// Store persists records of one table and implements sluggable.Repository.
type Store struct {
	db         DB
	slugger    *sluggable.Slugger
	logger     *slog.Logger
	newKey     func() any
	builder    sq.StatementBuilderType
	table      string
	keyColumn  string
	constraint string
	columns    []string
	maxRetries int
}

// New creates a store for table.
func New(db DB, table string, opts ...Option) *Store {
	s := &Store{
		db:         db,
		table:      table,
		keyColumn:  "id",
		newKey:     func() any { return id.NewULID() },
		maxRetries: 5,
		logger:     logger.NewNope(),
		builder:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSlugger attaches the slugger after construction, for sluggers that take the
// store as their repository.
func (s *Store) SetSlugger(sl *sluggable.Slugger) {
	s.slugger = sl
}

// ExistsOtherWithSlug reports whether a row other than exclude stores value
// in field.
func (s *Store) ExistsOtherWithSlug(ctx context.Context, field, value string, exclude any) (bool, error) {
	q := s.builder.Select("1").From(s.table).Where(sq.Eq{field: value})
	if exclude != nil {
		q = q.Where(sq.NotEq{s.keyColumn: exclude})
	}

	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return false, errors.Join(ErrBuildStatement, err)
	}

	var one int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, errors.Join(ErrQueryFailed, err)
	}
	return true, nil
}

// Save derives the slug and inserts or updates the row. Records without a
// key get one from the key func and are inserted; others are updated.
func (s *Store) Save(ctx context.Context, rec Record) error {
	isNew := rec.Key() == nil
	if isNew {
		rec.Put(s.keyColumn, s.newKey())
	}

	var slugField string
	var before any
	if s.slugger != nil {
		slugField = s.slugger.OptionsFor(rec).SlugField
		before, _ = rec.Get(slugField)
	}

	for attempt := 0; ; attempt++ {
		if s.slugger != nil {
			if err := s.slugger.DeriveAndAssign(ctx, rec); err != nil {
				return err
			}
		}

		err := s.write(ctx, rec, isNew)
		if err == nil {
			rec.SyncOriginal()
			return nil
		}

		if s.slugger == nil || !s.isSlugConflict(err, slugField) {
			return err
		}
		if attempt >= s.maxRetries {
			return errors.Join(ErrSlugTaken, err)
		}

		s.logger.WarnContext(ctx, "slug taken by a concurrent writer, retrying",
			slog.String("table", s.table),
			slog.Any("slug", firstValue(rec.Get(slugField))),
			slog.Int("attempt", attempt+1),
		)
		rec.Put(slugField, before)
	}
}

func (s *Store) write(ctx context.Context, rec Record, isNew bool) error {
	attrs := s.row(rec.Attributes())

	var (
		query string
		args  []any
		err   error
	)
	if isNew {
		query, args, err = s.builder.Insert(s.table).SetMap(attrs).ToSql()
	} else {
		delete(attrs, s.keyColumn)
		query, args, err = s.builder.Update(s.table).
			SetMap(attrs).
			Where(sq.Eq{s.keyColumn: rec.Key()}).
			ToSql()
	}
	if err != nil {
		return errors.Join(ErrBuildStatement, err)
	}

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	if !isNew && tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// row selects the attributes written to the table.
func (s *Store) row(attrs map[string]any) map[string]any {
	if len(s.columns) == 0 {
		return attrs
	}
	out := make(map[string]any, len(s.columns)+1)
	for k, v := range attrs {
		if k == s.keyColumn || slices.Contains(s.columns, k) {
			out[k] = v
		}
	}
	return out
}

// isSlugConflict reports whether err is a unique violation on the slug.
// With a constraint name set it must match; otherwise the violation detail
// must name the slug column, as in "Key (slug)=(hello) already exists.".
func (s *Store) isSlugConflict(err error, slugField string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	if s.constraint != "" {
		return pgErr.ConstraintName == s.constraint
	}
	return strings.HasPrefix(pgErr.Detail, "Key ("+slugField+")=")
}

// FindBySlug returns the row whose slug field, as configured by opts, equals
// value.
func (s *Store) FindBySlug(ctx context.Context, opts sluggable.SlugOptions, value string) (*sluggable.MapRecord, error) {
	query, args, err := sluggable.WhereSlug(s.builder.Select("*").From(s.table), opts, value).Limit(1).ToSql()
	if err != nil {
		return nil, errors.Join(ErrBuildStatement, err)
	}
	return s.one(ctx, query, args)
}

// Find returns the row with the given key.
func (s *Store) Find(ctx context.Context, key any) (*sluggable.MapRecord, error) {
	query, args, err := s.builder.Select("*").From(s.table).Where(sq.Eq{s.keyColumn: key}).Limit(1).ToSql()
	if err != nil {
		return nil, errors.Join(ErrBuildStatement, err)
	}
	return s.one(ctx, query, args)
}

func (s *Store) one(ctx context.Context, query string, args []any) (*sluggable.MapRecord, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return sluggable.NewMapRecord(s.keyColumn, row), nil
}

func firstValue(v any, _ bool) any { return v }

var _ sluggable.Repository = (*Store)(nil)
