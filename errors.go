package sluggable

import "errors"

// ErrInvalidOption marks configuration errors. Every error below except
// ErrRepository and ErrNoRepository is joined with it, so callers can test
// errors.Is(err, ErrInvalidOption) or use IsConfigurationError.
var ErrInvalidOption = errors.New("sluggable: invalid slug options")

var (
	ErrMissingSourceSpecification = errors.New("sluggable: could not determine which fields should be slugified")
	ErrMissingSlugField           = errors.New("sluggable: could not determine in which field the slug should be saved")
	ErrInvalidMaximumLength       = errors.New("sluggable: maximum length should be greater than zero")
	ErrEmptySourceDisallowed      = errors.New("sluggable: all source fields are empty")
	ErrSlugSpaceExhausted         = errors.New("sluggable: no unique slug fits in the maximum length")

	ErrNoRepository = errors.New("sluggable: unique slugs require a repository")
	ErrRepository   = errors.New("sluggable: repository lookup failed")
)

// IsConfigurationError reports whether err aborted a derivation because of
// the slug options or an empty source that the options disallow.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidOption)
}
