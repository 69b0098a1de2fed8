package sluggable

import "log/slog"

// RandomFunc returns a random string of n characters.
type RandomFunc func(n int) string

// Option configures a Slugger.
type Option func(*Slugger)

// WithLogger sets the logger. Derivations are logged at Debug and option
// errors at Warn. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Slugger) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultOptions sets the options used for records that do not
// implement OptionsProvider. Defaults to DefaultSlugOptions().
func WithDefaultOptions(opts SlugOptions) Option {
	return func(s *Slugger) {
		s.defaults = opts
	}
}

// WithTransliterator replaces the default cached transliterator.
func WithTransliterator(t Transliterator) Option {
	return func(s *Slugger) {
		if t != nil {
			s.translit = t
		}
	}
}

// WithRandom replaces the generator of random fallback slugs.
// Defaults to id.NewRandom.
func WithRandom(fn RandomFunc) Option {
	return func(s *Slugger) {
		if fn != nil {
			s.random = fn
		}
	}
}
