package slug

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldings covers Latin letters that have no canonical decomposition,
// so NFD + mark removal alone would drop them.
var foldings = map[rune]string{
	'ß': "s",
	'æ': "a", 'Æ': "a",
	'œ': "o", 'Œ': "o",
	'ø': "o", 'Ø': "o",
	'ł': "l", 'Ł': "l",
	'đ': "d", 'Đ': "d",
	'ð': "d", 'Ð': "d",
	'þ': "th", 'Þ': "th",
	'ı': "i",
}

// Make converts s into a URL-safe slug.
//
// Processing order: custom replacements, diacritic folding, lowercasing and
// separator joining, then truncation to MaxLength.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	result := cfg.slugify(fold(cfg.replace(s)))
	if cfg.maxLength > 0 {
		result = cfg.trimSeparator(truncate(result, cfg.maxLength))
	}
	return result
}

// fold replaces Latin diacritics with their ASCII base letters.
// The transformer chain is stateful, so one is built per call.
func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := foldings[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, b.String())
	if err != nil {
		return b.String()
	}
	return out
}

// slugify lowercases ASCII letters, keeps digits and collapses every other
// run of runes into a single separator. Leading and trailing runs are
// dropped.
func (c *config) slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r >= 'A' && r <= 'Z':
			r += 'a' - 'A'
		default:
			pending = b.Len() > 0
			continue
		}

		if pending {
			b.WriteString(c.separator)
			pending = false
		}
		b.WriteRune(r)
	}

	return b.String()
}

func (c *config) replace(s string) string {
	if len(c.replacements) == 0 {
		return s
	}

	keys := slices.Collect(maps.Keys(c.replacements))
	slices.SortFunc(keys, func(a, b string) int {
		if d := len(b) - len(a); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, c.replacements[k])
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// trimSeparator removes a trailing separator, including one cut in half by
// truncation.
func (c *config) trimSeparator(s string) string {
	if c.separator == "" {
		return s
	}

	for {
		trimmed := false
		for i := len(c.separator); i > 0; i-- {
			if p := c.separator[:i]; strings.HasSuffix(s, p) {
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

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
