// Package memory is an in-process record collection with slug lookups. It
// backs tests and small services that keep records in memory.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/spf13/cast"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/id"
)

var ErrNotFound = errors.New("memory: record not found")

// Record is a sluggable.Record whose attributes can be copied in and out of
// the store. *sluggable.MapRecord implements it, as do types embedding it.
type Record interface {
	sluggable.Record
	Put(field string, value any)
	Attributes() map[string]any
	SyncOriginal()
}

// Store keeps records keyed by identity. It implements
// sluggable.Repository. Safe for concurrent use.
type Store struct {
	slugger  *sluggable.Slugger
	rows     map[string]map[string]any
	keyField string
	mu       sync.RWMutex
}

// New creates an empty store. Records without a key get a ULID in keyField
// when saved. slugger may be nil when the store is only used as a
// Repository.
func New(keyField string, slugger *sluggable.Slugger) *Store {
	return &Store{
		slugger:  slugger,
		rows:     make(map[string]map[string]any),
		keyField: keyField,
	}
}

// SetSlugger attaches the slugger used by Save. It exists because the
// slugger usually takes the store as its repository.
func (s *Store) SetSlugger(slugger *sluggable.Slugger) {
	s.slugger = slugger
}

// ExistsOtherWithSlug reports whether a record other than exclude stores
// value in field.
func (s *Store) ExistsOtherWithSlug(_ context.Context, field, value string, exclude any) (bool, error) {
	excludeKey := keyString(exclude)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for key, row := range s.rows {
		if excludeKey != "" && key == excludeKey {
			continue
		}
		if v, ok := row[field]; ok && cast.ToString(v) == value {
			return true, nil
		}
	}
	return false, nil
}

// Save derives the record's slug, assigns a key if it has none, stores a
// copy of its attributes and marks them as the original values.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if s.slugger != nil {
		if err := s.slugger.DeriveAndAssign(ctx, rec); err != nil {
			return err
		}
	}

	if keyString(rec.Key()) == "" {
		rec.Put(s.keyField, id.NewULID())
	}

	s.mu.Lock()
	s.rows[keyString(rec.Key())] = rec.Attributes()
	s.mu.Unlock()

	rec.SyncOriginal()
	return nil
}

// FindBySlug returns the first record whose field equals value.
func (s *Store) FindBySlug(_ context.Context, field, value string) (*sluggable.MapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, row := range s.rows {
		if v, ok := row[field]; ok && cast.ToString(v) == value {
			return sluggable.NewMapRecord(s.keyField, maps.Clone(row)), nil
		}
	}
	return nil, ErrNotFound
}

// Find returns the record stored under key.
func (s *Store) Find(_ context.Context, key any) (*sluggable.MapRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[keyString(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return sluggable.NewMapRecord(s.keyField, maps.Clone(row)), nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func keyString(key any) string {
	if key == nil {
		return ""
	}
	return cast.ToString(key)
}

var _ sluggable.Repository = (*Store)(nil)
