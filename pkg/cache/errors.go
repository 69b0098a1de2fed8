package cache

import "errors"

// ErrNotFound is returned when a key does not exist in the cache or has expired.
var ErrNotFound = errors.New("cache: entry not found")
