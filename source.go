package sluggable

// Group is one candidate in a prioritized source list: either a single field
// or several fields concatenated with the separator.
type Group struct {
	fields []string
	concat bool
}

// Field selects a single field. Dotted paths ("author.name") are resolved by
// the Record.
func Field(name string) Group {
	return Group{fields: []string{name}}
}

// Concat selects several fields joined by the separator. The group is chosen
// when at least one member has a non-empty value; missing members contribute
// an empty string.
func Concat(names ...string) Group {
	return Group{fields: append([]string(nil), names...), concat: true}
}

// Fields returns the field names in the group.
func (g Group) Fields() []string {
	return append([]string(nil), g.fields...)
}

// IsConcat reports whether the group was built with Concat.
func (g Group) IsConcat() bool { return g.concat }

// GeneratorFunc produces slug source text directly from a record.
type GeneratorFunc func(rec Record) string

// Fields is a convenience for a priority list of single-field groups.
func Fields(names ...string) []Group {
	groups := make([]Group, 0, len(names))
	for _, name := range names {
		groups = append(groups, Field(name))
	}
	return groups
}
