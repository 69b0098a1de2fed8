package sluggable

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/sluggable/pkg/cache"
	"github.com/dmitrymomot/sluggable/pkg/id"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

const transliterationCacheSize = 4096

// Slugger derives slugs for records. It is safe for concurrent use.
type Slugger struct {
	repo     Repository
	translit Transliterator
	random   RandomFunc
	logger   *slog.Logger
	defaults SlugOptions
}

// New creates a Slugger that checks collisions against repo. repo may be
// nil when every record type allows duplicate slugs.
func New(repo Repository, opts ...Option) *Slugger {
	s := &Slugger{
		repo:     repo,
		defaults: DefaultSlugOptions(),
		random:   id.NewRandom,
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.translit == nil {
		s.translit = NewCachedTransliterator(
			NewTransliterator(0),
			cache.NewLRU[string](
				cache.WithMaxEntries(transliterationCacheSize),
				cache.WithDefaultTTL(-1),
			),
		)
	}
	return s
}

// OptionsFor returns the record's own options when it implements
// OptionsProvider, otherwise the Slugger defaults.
func (s *Slugger) OptionsFor(rec Record) SlugOptions {
	if p, ok := rec.(OptionsProvider); ok {
		return p.SlugOptions()
	}
	return s.defaults
}

// Derive computes the slug rec should store, without modifying rec.
func (s *Slugger) Derive(ctx context.Context, rec Record) (string, error) {
	return s.DeriveWith(ctx, rec, s.OptionsFor(rec))
}

// DeriveAndAssign derives the slug and writes it to the slug field. Call it
// right before a record is created or updated. On error rec is untouched.
func (s *Slugger) DeriveAndAssign(ctx context.Context, rec Record) error {
	opts := s.OptionsFor(rec)
	value, err := s.DeriveWith(ctx, rec, opts)
	if err != nil {
		return err
	}
	rec.Set(opts.SlugField, value)
	return nil
}

// DeriveWith computes the slug for rec using opts.
//
// Priority: a non-empty custom slug, then a slug the caller set on this
// pass, then an unchanged stored slug (returned as-is), then the source
// fields or generator. When opts require unique slugs the result is checked
// against the repository, excluding rec itself.
func (s *Slugger) DeriveWith(ctx context.Context, rec Record, opts SlugOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		s.logger.WarnContext(ctx, "invalid slug options",
			slog.String("slug_field", opts.SlugField),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	candidate, origin, err := s.candidate(rec, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "slug source is empty", slog.String("slug_field", opts.SlugField))
		return "", err
	}

	if origin == originUnchanged || !opts.GenerateUniqueSlugs {
		s.logger.DebugContext(ctx, "slug derived",
			slog.String("slug_field", opts.SlugField),
			slog.String("source", origin.String()),
			slog.String("slug", candidate),
		)
		return candidate, nil
	}

	if s.repo == nil {
		return "", ErrNoRepository
	}

	value, attempts, err := ensureUnique(ctx, s.repo, opts.SlugField, candidate, rec.Key(), opts.Separator, opts.MaximumLength)
	if err != nil {
		s.logger.ErrorContext(ctx, "slug uniqueness check failed",
			slog.String("slug_field", opts.SlugField),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	s.logger.DebugContext(ctx, "slug derived",
		slog.String("slug_field", opts.SlugField),
		slog.String("source", origin.String()),
		slog.String("slug", value),
		slog.Int("attempts", attempts),
	)
	return value, nil
}

type origin int

const (
	originCustom origin = iota
	originCallerSet
	originUnchanged
	originGenerator
	originFields
	originRandom
)

func (o origin) String() string {
	switch o {
	case originCustom:
		return "custom"
	case originCallerSet:
		return "caller"
	case originUnchanged:
		return "unchanged"
	case originGenerator:
		return "generator"
	case originFields:
		return "fields"
	default:
		return "random"
	}
}

func (s *Slugger) candidate(rec Record, opts SlugOptions) (string, origin, error) {
	if opts.CustomSlugField != "" {
		raw := text(rec.Get(opts.CustomSlugField))
		if strings.TrimSpace(raw) != "" {
			if c := s.finish(raw, opts.NormalizeCustomSlug, opts); c != "" {
				return c, originCustom, nil
			}
		}
	}

	current := text(rec.Get(opts.SlugField))
	if strings.TrimSpace(current) != "" {
		if current != text(rec.Original(opts.SlugField)) {
			return truncate(current, opts.MaximumLength), originCallerSet, nil
		}
		if !opts.RegenerateUnchanged {
			return current, originUnchanged, nil
		}
	}

	if opts.generator != nil {
		raw := truncate(opts.generator(rec), opts.MaximumLength)
		if strings.TrimSpace(raw) != "" {
			return s.finish(raw, opts.NormalizeSourceSlug, opts), originGenerator, nil
		}
		return s.fallback(opts)
	}

	group, ok := resolveSource(rec, opts.sources)
	if !ok {
		return s.fallback(opts)
	}

	src := truncate(buildSource(rec, group, opts.Separator), opts.MaximumLength)
	return s.finish(src, opts.NormalizeSourceSlug, opts), originFields, nil
}

// fallback handles a source that resolved to nothing.
func (s *Slugger) fallback(opts SlugOptions) (string, origin, error) {
	if !opts.AllowEmptySource {
		return "", originRandom, errors.Join(ErrInvalidOption, ErrEmptySourceDisallowed)
	}
	n := opts.randomLength()
	return truncate(s.random(n), n), originRandom, nil
}

// finish optionally normalizes text and bounds it to the maximum length.
func (s *Slugger) finish(text string, normalize bool, opts SlugOptions) string {
	if normalize {
		text = s.translit.Transliterate(text, opts.Locale, opts.Dictionary, opts.Separator)
		return trimTrailing(truncate(text, opts.MaximumLength), opts.Separator)
	}
	return truncate(text, opts.MaximumLength)
}
