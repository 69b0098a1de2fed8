// Package sluggable derives URL-safe, optionally unique slugs for records
// right before they are created or updated.
//
// A record type describes its slug with [SlugOptions]: a prioritized list of
// source fields (single fields, concatenated groups, dotted paths into
// related data) or a generator function, the field that stores the slug, an
// optional field callers fill to force a custom slug, and limits. A
// [Slugger] applies those options:
//
//	opts := sluggable.NewSlugOptions().
//		GenerateSlugsFrom(sluggable.Field("title"), sluggable.Field("name")).
//		SaveSlugsTo("slug")
//
//	s := sluggable.New(repo, sluggable.WithDefaultOptions(opts))
//	if err := s.DeriveAndAssign(ctx, rec); err != nil {
//		return err
//	}
//
// # Derivation order
//
//  1. The options are validated; problems are reported as errors matching
//     [ErrInvalidOption].
//  2. A non-empty custom slug wins and is normalized unless disabled.
//  3. A slug the caller changed on this pass is kept verbatim. A slug equal
//     to its stored value is kept as-is and not re-checked, unless the
//     options ask to regenerate on update.
//  4. Otherwise the first source group with a value is joined, cut to the
//     maximum length and normalized. With no usable source the slug is a
//     random string, or [ErrEmptySourceDisallowed].
//  5. With unique slugs enabled, collisions with other records resolve to
//     base, base-1, base-2 and so on.
//
// Collision checks are advisory. Stores that need a hard guarantee add a
// unique index and retry on violation, as store/postgres does.
//
// Records that implement [OptionsProvider] supply their own options; others
// use the Slugger defaults, [DefaultSlugOptions] unless overridden. A
// [Registry] loads named options per collection from YAML.
package sluggable
