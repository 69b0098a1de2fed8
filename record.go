package sluggable

import (
	"maps"
	"strings"

	"github.com/spf13/cast"
)

// Record is the entity a slug is derived for.
type Record interface {
	// Get returns the current value of a field. Dotted paths address nested
	// or related values; missing paths report false.
	Get(field string) (any, bool)
	// Original returns the value the field had before the current mutation,
	// usually the persisted value.
	Original(field string) (any, bool)
	// Set writes a field value in memory.
	Set(field, value string)
	// Key returns the record identity, or nil for records not yet stored.
	Key() any
}

// OptionsProvider is implemented by records that carry their own slug
// options. Records without it use the Slugger's default options.
type OptionsProvider interface {
	SlugOptions() SlugOptions
}

// text converts a field value to a string. Absent and nil values are empty.
func text(v any, ok bool) string {
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// MapRecord is a Record backed by a map of attributes. Nested maps are
// addressed with dotted paths, so a related record can be embedded as a
// sub-map:
//
//	rec := sluggable.NewMapRecord("id", map[string]any{
//		"name":   "this is a test",
//		"author": map[string]any{"name": "relation name"},
//	})
//	rec.Get("author.name") // "relation name", true
type MapRecord struct {
	attrs    map[string]any
	original map[string]any
	keyField string
}

// NewMapRecord creates a record whose identity is read from keyField. The
// attributes are copied and also become the original snapshot, as for a
// record freshly loaded from storage.
func NewMapRecord(keyField string, attrs map[string]any) *MapRecord {
	r := &MapRecord{
		attrs:    maps.Clone(attrs),
		keyField: keyField,
	}
	if r.attrs == nil {
		r.attrs = make(map[string]any)
	}
	r.SyncOriginal()
	return r
}

// NewUnsavedMapRecord creates a record with an empty original snapshot.
func NewUnsavedMapRecord(keyField string, attrs map[string]any) *MapRecord {
	r := NewMapRecord(keyField, attrs)
	r.original = make(map[string]any)
	return r
}

// Get returns the current value of field, following dotted paths.
func (r *MapRecord) Get(field string) (any, bool) {
	return lookup(r.attrs, field)
}

// Original returns the value field had at the last snapshot.
func (r *MapRecord) Original(field string) (any, bool) {
	return lookup(r.original, field)
}

// Set stores a derived slug.
func (r *MapRecord) Set(field, value string) {
	r.attrs[field] = value
}

// Put writes any value, for callers filling the record before derivation.
func (r *MapRecord) Put(field string, value any) {
	r.attrs[field] = value
}

// Key returns the key field value, or nil when it is unset.
func (r *MapRecord) Key() any {
	if r.keyField == "" {
		return nil
	}
	v, ok := r.attrs[r.keyField]
	if !ok {
		return nil
	}
	return v
}

// SyncOriginal snapshots the current attributes as the original values,
// marking the record as persisted.
func (r *MapRecord) SyncOriginal() {
	r.original = maps.Clone(r.attrs)
}

// Attributes returns a shallow copy of the current attributes.
func (r *MapRecord) Attributes() map[string]any {
	return maps.Clone(r.attrs)
}

// lookup resolves field in attrs. An exact key wins over a dotted path.
func lookup(attrs map[string]any, field string) (any, bool) {
	if v, ok := attrs[field]; ok {
		return v, true
	}

	head, rest, found := strings.Cut(field, ".")
	if !found {
		return nil, false
	}

	next, ok := attrs[head]
	if !ok || next == nil {
		return nil, false
	}

	nested, err := cast.ToStringMapE(next)
	if err != nil {
		return nil, false
	}
	return lookup(nested, rest)
}

var (
	_ Record = (*MapRecord)(nil)
)
