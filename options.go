package sluggable

import (
	"errors"
	"maps"
	"slices"
)

const (
	defaultMaximumLength        = 250
	defaultSeparator            = "-"
	defaultRandomFallbackLength = 50
)

// SlugOptions describes how to derive and store the slug of one record type.
//
// It is a value type: every builder method returns a modified copy, so a base
// configuration can be shared and specialised without aliasing.
//
//	opts := sluggable.NewSlugOptions().
//		GenerateSlugsFrom(sluggable.Field("title"), sluggable.Concat("first_name", "last_name")).
//		SaveSlugsTo("slug").
//		SaveCustomSlugsTo("slug_custom").
//		SlugsShouldBeNoLongerThan(120)
type SlugOptions struct {
	sources   []Group
	generator GeneratorFunc

	SlugField            string
	CustomSlugField      string
	GenerateUniqueSlugs  bool
	AllowEmptySource     bool
	MaximumLength        int
	Separator            string
	RandomFallbackLength int
	NormalizeSourceSlug  bool
	NormalizeCustomSlug  bool
	Locale               string
	Dictionary           map[string]string

	// RegenerateUnchanged re-derives a slug that still equals its stored
	// value, so editing the source fields updates the slug.
	RegenerateUnchanged bool
}

// NewSlugOptions returns options with the library defaults and no source or
// slug field.
func NewSlugOptions() SlugOptions {
	return SlugOptions{
		GenerateUniqueSlugs:  true,
		AllowEmptySource:     true,
		MaximumLength:        defaultMaximumLength,
		Separator:            defaultSeparator,
		RandomFallbackLength: defaultRandomFallbackLength,
		NormalizeSourceSlug:  true,
		NormalizeCustomSlug:  true,
	}
}

// DefaultSlugOptions returns the options used for records that do not provide
// their own: a prioritized list of common title/name/code fields stored in
// "slug", at most 255 characters.
func DefaultSlugOptions() SlugOptions {
	return NewSlugOptions().
		GenerateSlugsFrom(
			Field("titolo"),
			Field("title"),
			Concat("nome", "cognome"),
			Concat("first_name", "last_name"),
			Field("nome"),
			Field("name"),
			Field("descr"),
			Field("descrizione"),
			Field("codice"),
			Field("pcode"),
			Field("id"),
		).
		SaveSlugsTo("slug").
		SlugsShouldBeNoLongerThan(255)
}

// GenerateSlugsFrom sets the prioritized source groups and clears any
// generator.
func (o SlugOptions) GenerateSlugsFrom(groups ...Group) SlugOptions {
	o.sources = slices.Clone(groups)
	o.generator = nil
	return o
}

// GenerateSlugsWith derives the source text with fn instead of fields.
func (o SlugOptions) GenerateSlugsWith(fn GeneratorFunc) SlugOptions {
	o.generator = fn
	o.sources = nil
	return o
}

// SaveSlugsTo names the field the slug is stored in.
func (o SlugOptions) SaveSlugsTo(field string) SlugOptions {
	o.SlugField = field
	return o
}

// SaveCustomSlugsTo names the field callers set to force a specific slug.
func (o SlugOptions) SaveCustomSlugsTo(field string) SlugOptions {
	o.CustomSlugField = field
	return o
}

// AllowDuplicateSlugs skips the uniqueness check.
func (o SlugOptions) AllowDuplicateSlugs() SlugOptions {
	o.GenerateUniqueSlugs = false
	return o
}

// DisallowSlugIfAllSourceFieldsEmpty fails the derivation with
// ErrEmptySourceDisallowed instead of using a random slug.
func (o SlugOptions) DisallowSlugIfAllSourceFieldsEmpty() SlugOptions {
	o.AllowEmptySource = false
	return o
}

// AllowSlugIfAllSourceFieldsEmpty falls back to a random slug when every
// source is empty. This is the default.
func (o SlugOptions) AllowSlugIfAllSourceFieldsEmpty() SlugOptions {
	o.AllowEmptySource = true
	return o
}

// SlugsShouldBeNoLongerThan sets the maximum slug length in characters.
func (o SlugOptions) SlugsShouldBeNoLongerThan(n int) SlugOptions {
	o.MaximumLength = n
	return o
}

// RandomSlugsShouldBeNoLongerThan sets the length of the random slug used
// when every source field is empty. It is clamped to the maximum length.
func (o SlugOptions) RandomSlugsShouldBeNoLongerThan(n int) SlugOptions {
	o.RandomFallbackLength = n
	return o
}

// SlugsSeparator sets the word and counter separator. "" joins them
// directly.
func (o SlugOptions) SlugsSeparator(sep string) SlugOptions {
	o.Separator = sep
	return o
}

// SkipSourceNormalization stores derived source text as-is (after
// truncation) instead of transliterating it.
func (o SlugOptions) SkipSourceNormalization() SlugOptions {
	o.NormalizeSourceSlug = false
	return o
}

// SkipCustomNormalization stores custom slugs as-is (after truncation).
func (o SlugOptions) SkipCustomNormalization() SlugOptions {
	o.NormalizeCustomSlug = false
	return o
}

// TransliterateWith sets the locale and extra character substitutions passed
// to the Transliterator. The dictionary is copied.
func (o SlugOptions) TransliterateWith(locale string, dict map[string]string) SlugOptions {
	o.Locale = locale
	o.Dictionary = maps.Clone(dict)
	return o
}

// RegenerateOnUpdate makes every pass re-derive the slug from its source
// unless the caller changed it explicitly.
func (o SlugOptions) RegenerateOnUpdate() SlugOptions {
	o.RegenerateUnchanged = true
	return o
}

// Sources returns a copy of the configured source groups.
func (o SlugOptions) Sources() []Group { return slices.Clone(o.sources) }

// Generator returns the configured generator, or nil.
func (o SlugOptions) Generator() GeneratorFunc { return o.generator }

// hasSource reports whether a generator or at least one named field is set.
func (o SlugOptions) hasSource() bool {
	if o.generator != nil {
		return true
	}
	for _, g := range o.sources {
		for _, f := range g.fields {
			if f != "" {
				return true
			}
		}
	}
	return false
}

// Validate checks the invariants required before any derivation work.
// Every violation is reported; each is joined with ErrInvalidOption.
func (o SlugOptions) Validate() error {
	var errs []error
	if !o.hasSource() {
		errs = append(errs, ErrMissingSourceSpecification)
	}
	if o.SlugField == "" {
		errs = append(errs, ErrMissingSlugField)
	}
	if o.MaximumLength <= 0 {
		errs = append(errs, ErrInvalidMaximumLength)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidOption}, errs...)...)
}

// randomLength is the random fallback length clamped to the maximum.
func (o SlugOptions) randomLength() int {
	n := o.RandomFallbackLength
	if n <= 0 || n > o.MaximumLength {
		n = o.MaximumLength
	}
	return n
}
