// Package redisindex keeps a slug to owner index in Redis hashes, one hash
// per collection and slug field.
//
// The index works as a sluggable.Repository for stores that cannot check
// uniqueness themselves, and as a claim table for stores that can: Reserve
// derives a slug and claims it atomically with HSETNX, so two writers never
// end up holding the same slug.
//
//	idx := redisindex.New(client, "articles")
//	slugger := sluggable.New(idx)
//	idx.SetSlugger(slugger)
//	slug, err := idx.Reserve(ctx, rec)
package redisindex

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cast"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

var (
	ErrNoOwner      = errors.New("redisindex: record has no key")
	ErrNoSlugger    = errors.New("redisindex: slugger not configured")
	ErrClaimFailed  = errors.New("redisindex: slug still claimed after retries")
	ErrIndexFailure = errors.New("redisindex: redis command failed")
)

// releaseScript deletes the entry only while owner still holds it.
var releaseScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], ARGV[1]) == ARGV[2] then
	return redis.call("HDEL", KEYS[1], ARGV[1])
end
return 0
`)

// Index maps slugs to the key of the record holding them.
type Index struct {
	client     redis.UniversalClient
	slugger    *sluggable.Slugger
	logger     *slog.Logger
	prefix     string
	collection string
	maxRetries int
}

// Option configures an Index.
type Option func(*Index)

// WithPrefix sets the key prefix. Default: "slugs".
func WithPrefix(prefix string) Option {
	return func(i *Index) {
		if prefix != "" {
			i.prefix = prefix
		}
	}
}

// WithMaxRetries bounds how often Reserve re-derives after losing a claim.
// Default: 5.
func WithMaxRetries(n int) Option {
	return func(i *Index) {
		i.maxRetries = max(n, 0)
	}
}

// WithLogger logs lost claims at Warn. Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Index) {
		if l != nil {
			i.logger = l
		}
	}
}

// New creates an index for collection.
func New(client redis.UniversalClient, collection string, opts ...Option) *Index {
	i := &Index{
		client:     client,
		collection: collection,
		prefix:     "slugs",
		maxRetries: 5,
		logger:     logger.NewNope(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SetSlugger attaches the slugger Reserve derives with.
func (i *Index) SetSlugger(sl *sluggable.Slugger) {
	i.slugger = sl
}

// Key returns the hash key holding the slugs of field.
func (i *Index) Key(field string) string {
	return i.prefix + ":" + i.collection + ":" + field
}

// ExistsOtherWithSlug reports whether value is held by an owner other than
// exclude.
func (i *Index) ExistsOtherWithSlug(ctx context.Context, field, value string, exclude any) (bool, error) {
	owner, err := i.client.HGet(ctx, i.Key(field), value).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Join(ErrIndexFailure, err)
	}
	if exclude == nil {
		return true, nil
	}
	return owner != cast.ToString(exclude), nil
}

// Owner returns the key holding value, or false when value is free.
func (i *Index) Owner(ctx context.Context, field, value string) (string, bool, error) {
	owner, err := i.client.HGet(ctx, i.Key(field), value).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrIndexFailure, err)
	}
	return owner, true, nil
}

// Claim records owner as the holder of value. It reports false when a
// different owner already holds it. Claiming a slug twice is a no-op.
func (i *Index) Claim(ctx context.Context, field, value string, owner any) (bool, error) {
	o := cast.ToString(owner)
	if o == "" {
		return false, ErrNoOwner
	}

	ok, err := i.client.HSetNX(ctx, i.Key(field), value, o).Result()
	if err != nil {
		return false, errors.Join(ErrIndexFailure, err)
	}
	if ok {
		return true, nil
	}

	holder, found, err := i.Owner(ctx, field, value)
	if err != nil {
		return false, err
	}
	return found && holder == o, nil
}

// Release frees value if owner holds it.
func (i *Index) Release(ctx context.Context, field, value string, owner any) error {
	if err := releaseScript.Run(ctx, i.client, []string{i.Key(field)}, value, cast.ToString(owner)).Err(); err != nil {
		return errors.Join(ErrIndexFailure, err)
	}
	return nil
}

// Reserve derives the slug of rec, claims it, assigns it to rec and frees the
// slug rec held before. A lost claim means a concurrent writer won the
// slug; the next derivation sees it and moves on to another counter.
func (i *Index) Reserve(ctx context.Context, rec sluggable.Record) (string, error) {
	if i.slugger == nil {
		return "", ErrNoSlugger
	}
	owner := rec.Key()
	if cast.ToString(owner) == "" {
		return "", ErrNoOwner
	}

	opts := i.slugger.OptionsFor(rec)
	previous, _ := rec.Original(opts.SlugField)
	prev := cast.ToString(previous)

	for attempt := 0; ; attempt++ {
		value, err := i.slugger.DeriveWith(ctx, rec, opts)
		if err != nil {
			return "", err
		}

		ok, err := i.Claim(ctx, opts.SlugField, value, owner)
		if err != nil {
			return "", err
		}
		if ok {
			rec.Set(opts.SlugField, value)
			if prev != "" && prev != value {
				if err := i.Release(ctx, opts.SlugField, prev, owner); err != nil {
					return "", err
				}
			}
			return value, nil
		}

		if !opts.GenerateUniqueSlugs || attempt >= i.maxRetries {
			return "", ErrClaimFailed
		}
		i.logger.WarnContext(ctx, "slug claimed by a concurrent writer, retrying",
			slog.String("collection", i.collection),
			slog.String("slug", value),
			slog.Int("attempt", attempt+1),
		)
	}
}

var _ sluggable.Repository = (*Index)(nil)
