package sluggable

import sq "github.com/Masterminds/squirrel"

// FindBySlugQuery returns the predicate slug_field = value for opts.
func FindBySlugQuery(opts SlugOptions, value string) sq.Eq {
	return sq.Eq{opts.SlugField: value}
}

// WhereSlug narrows sb to rows whose slug field equals value.
//
//	sql, args, _ := sluggable.WhereSlug(sq.Select("*").From("articles"), opts, "hello-dad").ToSql()
//	// SELECT * FROM articles WHERE slug = ?   [hello-dad]
func WhereSlug(sb sq.SelectBuilder, opts SlugOptions, value string) sq.SelectBuilder {
	return sb.Where(FindBySlugQuery(opts, value))
}
