package sluggable

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/sluggable/pkg/cache"
	"github.com/dmitrymomot/sluggable/pkg/slug"
)

// Transliterator turns arbitrary text into lowercase ASCII tokens joined by
// sep. locale and dict tune character substitutions.
type Transliterator interface {
	Transliterate(text, locale string, dict map[string]string, sep string) string
}

// TransliteratorFunc adapts a function to Transliterator.
type TransliteratorFunc func(text, locale string, dict map[string]string, sep string) string

// Transliterate calls f.
func (f TransliteratorFunc) Transliterate(text, locale string, dict map[string]string, sep string) string {
	return f(text, locale, dict, sep)
}

// localeDictionaries hold substitutions applied before diacritic folding.
// "&" has no entry, so "AT&T" becomes "at-t" rather than "at-and-t".
var localeDictionaries = map[string]map[string]string{
	"en": {
		"ß": "ss", "æ": "ae", "Æ": "AE", "œ": "oe", "Œ": "OE",
		"@": " at ",
	},
	"de": {
		"ä": "ae", "ö": "oe", "ü": "ue", "Ä": "Ae", "Ö": "Oe", "Ü": "Ue",
		"ß": "ss", "@": " at ",
	},
}

const defaultLocale = "en"

type transliterator struct {
	maxLength int
}

// NewTransliterator returns the default Transliterator. It applies the
// locale's substitutions and the caller's dictionary, which wins on equal
// keys, then folds the text to lowercase ASCII with pkg/slug. Every run of
// other characters, markup included, becomes one separator: "x<y" is "x-y".
//
// maxLength bounds the output in runes; zero disables the bound.
func NewTransliterator(maxLength int) Transliterator {
	return transliterator{maxLength: max(maxLength, 0)}
}

func (t transliterator) Transliterate(text, locale string, dict map[string]string, sep string) string {
	if text == "" {
		return ""
	}

	return slug.Make(text,
		slug.CustomReplace(localeDictionaries[localeBase(locale)]),
		slug.CustomReplace(dict),
		slug.Separator(sep),
		slug.MaxLength(t.maxLength),
	)
}

// localeBase reduces "de-AT" or "de_AT" to "de". Unknown locales fall back
// to English.
func localeBase(locale string) string {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	if err != nil {
		return defaultLocale
	}
	base, _ := tag.Base()
	if _, ok := localeDictionaries[base.String()]; !ok {
		return defaultLocale
	}
	return base.String()
}

type cachedTransliterator struct {
	next  Transliterator
	cache cache.Cache[string]
}

// NewCachedTransliterator memoizes next in c. Concurrent misses for the same
// input share one call.
//
//	t := sluggable.NewCachedTransliterator(
//		sluggable.NewTransliterator(0),
//		cache.NewLRU[string](cache.WithMaxEntries(5000), cache.WithDefaultTTL(-1)),
//	)
func NewCachedTransliterator(next Transliterator, c cache.Cache[string]) Transliterator {
	return cachedTransliterator{next: next, cache: c}
}

func (t cachedTransliterator) Transliterate(text, locale string, dict map[string]string, sep string) string {
	key := cacheKey(text, locale, dict, sep)
	out, err := t.cache.GetOrSet(context.Background(), key, func(context.Context) (string, error) {
		return t.next.Transliterate(text, locale, dict, sep), nil
	})
	if err != nil {
		return t.next.Transliterate(text, locale, dict, sep)
	}
	return out
}

// cacheKey encodes every input with length prefixes so distinct inputs
// never share a key.
func cacheKey(text, locale string, dict map[string]string, sep string) string {
	var b strings.Builder
	write := func(s string) {
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}

	write(locale)
	write(sep)
	for _, k := range slices.Sorted(maps.Keys(dict)) {
		write(k)
		write(dict[k])
	}
	b.WriteByte('|')
	write(text)
	return b.String()
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
