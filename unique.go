package sluggable

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Repository answers collision queries for one record collection.
type Repository interface {
	// ExistsOtherWithSlug reports whether a record other than the one
	// identified by exclude stores value in field. exclude is nil for
	// records not yet stored.
	ExistsOtherWithSlug(ctx context.Context, field, value string, exclude any) (bool, error)
}

// RepositoryFunc adapts a function to Repository.
type RepositoryFunc func(ctx context.Context, field, value string, exclude any) (bool, error)

// ExistsOtherWithSlug calls f.
func (f RepositoryFunc) ExistsOtherWithSlug(ctx context.Context, field, value string, exclude any) (bool, error) {
	return f(ctx, field, value, exclude)
}

// ensureUnique probes repo until it finds a free, non-empty value. Attempts
// are candidate, candidate+sep+1, candidate+sep+2, ... always built from the
// original candidate. When a suffixed value would exceed maxLen runes the
// candidate is shortened to make room for the suffix.
//
// The loop has no attempt cap; it ends when the repository reports a free
// value, the context is done, or the counter alone no longer fits in maxLen.
func ensureUnique(ctx context.Context, repo Repository, field, candidate string, exclude any, sep string, maxLen int) (string, int, error) {
	value := candidate
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", attempt, errors.Join(ErrRepository, err)
		}

		if value != "" {
			taken, err := repo.ExistsOtherWithSlug(ctx, field, value, exclude)
			if err != nil {
				return "", attempt, errors.Join(ErrRepository, err)
			}
			if !taken {
				return value, attempt, nil
			}
		}

		next, ok := withCounter(candidate, sep, attempt, maxLen)
		if !ok {
			return "", attempt, errors.Join(ErrInvalidOption, ErrInvalidMaximumLength, ErrSlugSpaceExhausted)
		}
		value = next
	}
}

// withCounter appends sep+n to base, shortening base so the result fits in
// maxLen runes. A trailing partial separator left by the cut is dropped.
// Without room for base and separator the counter stands alone; it reports
// false once the counter itself is longer than maxLen.
func withCounter(base, sep string, n, maxLen int) (string, bool) {
	counter := strconv.Itoa(n)
	next := base + sep + counter
	if maxLen <= 0 || utf8.RuneCountInString(next) <= maxLen {
		return next, true
	}
	if len(counter) > maxLen {
		return "", false
	}

	room := maxLen - utf8.RuneCountInString(sep) - len(counter)
	if room <= 0 {
		return counter, true
	}

	base = trimTrailing(truncate(base, room), sep)
	if base == "" {
		return counter, true
	}
	return base + sep + counter, true
}

// trimTrailing removes trailing copies of sep, or a prefix of sep left by
// truncation.
func trimTrailing(s, sep string) string {
	if sep == "" {
		return s
	}
	for {
		trimmed := false
		for i := len(sep); i > 0; i-- {
			if p := sep[:i]; strings.HasSuffix(s, p) {
				s = s[:len(s)-len(p)]
				trimmed = true
				break
			}
		}
		if !trimmed {
			return s
		}
	}
}
