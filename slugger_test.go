package sluggable_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/slug"
	"github.com/dmitrymomot/sluggable/store/memory"
)

// model carries its own slug options, like a record type with custom
// configuration.
type model struct {
	*sluggable.MapRecord
	opts sluggable.SlugOptions
}

func (m model) SlugOptions() sluggable.SlugOptions { return m.opts }

func testOptions() sluggable.SlugOptions {
	return sluggable.NewSlugOptions().
		GenerateSlugsFrom(sluggable.Field("name")).
		SaveSlugsTo("url").
		AllowSlugIfAllSourceFieldsEmpty()
}

func newModel(opts sluggable.SlugOptions, attrs map[string]any) model {
	return model{MapRecord: sluggable.NewUnsavedMapRecord("id", attrs), opts: opts}
}

func newStore() *memory.Store {
	store := memory.New("id", nil)
	store.SetSlugger(sluggable.New(store, sluggable.WithDefaultOptions(testOptions())))
	return store
}

func urlOf(t *testing.T, rec sluggable.Record) string {
	t.Helper()
	v, ok := rec.Get("url")
	require.True(t, ok, "url not set")
	return v.(string)
}

func TestSlugger_SavesSlug(t *testing.T) {
	t.Parallel()

	store := newStore()
	rec := newModel(testOptions(), map[string]any{"name": "this is a test"})
	require.NoError(t, store.Save(context.Background(), rec))

	assert.Equal(t, "this-is-a-test", urlOf(t, rec))
}

func TestSlugger_UniqueByDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore()

	first := newModel(testOptions(), map[string]any{"name": "this is a test"})
	require.NoError(t, store.Save(ctx, first))
	require.Equal(t, "this-is-a-test", urlOf(t, first))

	for i := 1; i <= 10; i++ {
		rec := newModel(testOptions(), map[string]any{"name": "this is a test"})
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, fmt.Sprintf("this-is-a-test-%d", i), urlOf(t, rec))
	}
}

func TestSlugger_DuplicatesAllowed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore()
	opts := testOptions().AllowDuplicateSlugs()

	for range 10 {
		rec := newModel(opts, map[string]any{"name": "this is a test"})
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, "this-is-a-test", urlOf(t, rec))
	}
}

func TestSlugger_EmptySource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for _, name := range []any{nil, "", "   "} {
		t.Run(fmt.Sprintf("random fallback for %q", name), func(t *testing.T) {
			t.Parallel()

			rec := newModel(testOptions().RandomSlugsShouldBeNoLongerThan(30), map[string]any{"name": name})
			require.NoError(t, newStore().Save(ctx, rec))
			assert.Len(t, urlOf(t, rec), 30)
		})
	}

	t.Run("fallback clamped to maximum length", func(t *testing.T) {
		t.Parallel()

		opts := testOptions().RandomSlugsShouldBeNoLongerThan(80).SlugsShouldBeNoLongerThan(12)
		rec := newModel(opts, map[string]any{})
		require.NoError(t, newStore().Save(ctx, rec))
		assert.Len(t, urlOf(t, rec), 12)
	})

	t.Run("disallowed", func(t *testing.T) {
		t.Parallel()

		rec := newModel(testOptions().DisallowSlugIfAllSourceFieldsEmpty(), map[string]any{"name": ""})
		err := newStore().Save(ctx, rec)
		require.ErrorIs(t, err, sluggable.ErrEmptySourceDisallowed)
		require.True(t, sluggable.IsConfigurationError(err))

		_, ok := rec.Get("url")
		assert.False(t, ok, "slug field must not be written on error")
	})
}

func TestSlugger_SourceUnchanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore()

	rec := newModel(testOptions(), map[string]any{"name": "this is a test"})
	require.NoError(t, store.Save(ctx, rec))

	rec.Put("other_field", "otherValue")
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, "this-is-a-test", urlOf(t, rec))

	rec.Put("name", "this is another test")
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, "this-is-a-test", urlOf(t, rec), "stored slug is kept verbatim")
}

func TestSlugger_RegenerateOnUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore()

	rec := newModel(testOptions().RegenerateOnUpdate(), map[string]any{"name": "this is a test"})
	require.NoError(t, store.Save(ctx, rec))

	rec.Put("other_field", "otherValue")
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, "this-is-a-test", urlOf(t, rec))

	rec.Put("name", "this is another test")
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, "this-is-another-test", urlOf(t, rec))
}

func TestSlugger_SlugClearedIsRederived(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore()

	rec := newModel(testOptions(), map[string]any{"name": "this is a test"})
	require.NoError(t, store.Save(ctx, rec))
	require.Equal(t, "this-is-a-test", urlOf(t, rec))

	rec.Put("url", "")
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, "this-is-a-test", urlOf(t, rec))
}

func TestSlugger_CallerSetSlug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("kept verbatim on create", func(t *testing.T) {
		t.Parallel()

		rec := newModel(testOptions(), map[string]any{"name": "this is a test", "url": "hello"})
		require.NoError(t, newStore().Save(ctx, rec))
		assert.Equal(t, "hello", urlOf(t, rec))
	})

	t.Run("not normalized", func(t *testing.T) {
		t.Parallel()

		rec := newModel(testOptions(), map[string]any{"name": "x", "url": "Hello World"})
		require.NoError(t, newStore().Save(ctx, rec))
		assert.Equal(t, "Hello World", urlOf(t, rec))
	})

	t.Run("overwrite on update", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		rec := newModel(testOptions(), map[string]any{"name": "this is a test"})
		require.NoError(t, store.Save(ctx, rec))

		rec.Put("url", "this-is-an-url")
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, "this-is-an-url", urlOf(t, rec))
	})

	t.Run("overwrite colliding with another record", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		rec := newModel(testOptions(), map[string]any{"name": "this is a test"})
		other := newModel(testOptions(), map[string]any{"name": "this is an other"})
		require.NoError(t, store.Save(ctx, rec))
		require.NoError(t, store.Save(ctx, other))

		rec.Put("url", "this-is-an-other")
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, "this-is-an-other-1", urlOf(t, rec))
	})
}

func TestSlugger_CustomSlug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("overrides derived value", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		rec := newModel(testOptions().SaveCustomSlugsTo("url_custom"), map[string]any{"name": "hello dad"})
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, "hello-dad", urlOf(t, rec))

		rec.Put("url_custom", "This Is A Custom Test")
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, "this-is-a-custom-test", urlOf(t, rec))
	})

	t.Run("without normalization", func(t *testing.T) {
		t.Parallel()

		opts := testOptions().SaveCustomSlugsTo("url_custom").SkipCustomNormalization().SlugsShouldBeNoLongerThan(8)
		rec := newModel(opts, map[string]any{"name": "hello", "url_custom": "Custom Välue"})
		require.NoError(t, newStore().Save(ctx, rec))
		assert.Equal(t, "Custom V", urlOf(t, rec))
	})

	t.Run("normalizing to empty falls back to source", func(t *testing.T) {
		t.Parallel()

		rec := newModel(testOptions().SaveCustomSlugsTo("url_custom"), map[string]any{"name": "hello", "url_custom": "€€€"})
		require.NoError(t, newStore().Save(ctx, rec))
		assert.Equal(t, "hello", urlOf(t, rec))
	})
}

func TestSlugger_MultipleSourceFields(t *testing.T) {
	t.Parallel()

	opts := testOptions().GenerateSlugsFrom(sluggable.Concat("name", "other_field"))
	rec := newModel(opts, map[string]any{"name": "this is a test", "other_field": "this is another field"})
	require.NoError(t, newStore().Save(context.Background(), rec))

	assert.Equal(t, "this-is-a-test-this-is-another-field", urlOf(t, rec))
}

func TestSlugger_RelationSourceFields(t *testing.T) {
	t.Parallel()

	opts := testOptions().GenerateSlugsFrom(sluggable.Concat("testmodelrelation.name", "name"))
	rec := newModel(opts, map[string]any{
		"name":              "this is a test",
		"testmodelrelation": map[string]any{"id": 1, "name": "relation name"},
	})
	require.NoError(t, newStore().Save(context.Background(), rec))

	assert.Equal(t, "relation-name-this-is-a-test", urlOf(t, rec))
}

func TestSlugger_Generator(t *testing.T) {
	t.Parallel()

	opts := testOptions().GenerateSlugsWith(func(rec sluggable.Record) string {
		name, _ := rec.Get("name")
		return "foo-" + slug.Make(name.(string))
	})
	rec := newModel(opts, map[string]any{"name": "this is a test"})
	require.NoError(t, newStore().Save(context.Background(), rec))

	assert.Equal(t, "foo-this-is-a-test", urlOf(t, rec))
}

func TestSlugger_MaximumLength(t *testing.T) {
	t.Parallel()

	rec := newModel(testOptions().SlugsShouldBeNoLongerThan(5), map[string]any{"name": "123456789"})
	require.NoError(t, newStore().Save(context.Background(), rec))

	assert.Equal(t, "12345", urlOf(t, rec))
}

func TestSlugger_WeirdCharacters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"é", "e"},
		{"è", "e"},
		{"à", "a"},
		{"a€", "a"},
		{"ß", "ss"},
		{"a/ ", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			rec := newModel(testOptions(), map[string]any{"name": tt.in})
			require.NoError(t, newStore().Save(context.Background(), rec))
			assert.Equal(t, tt.want, urlOf(t, rec))
		})
	}
}

func TestSlugger_FirstMatchResolution(t *testing.T) {
	t.Parallel()

	opts := testOptions().GenerateSlugsFrom(sluggable.Field("a"), sluggable.Concat("b", "c"), sluggable.Field("d"))

	tests := []struct {
		name  string
		attrs map[string]any
		want  string
	}{
		{"first field wins", map[string]any{"a": "Alpha", "b": "Beta", "c": "Gamma"}, "alpha"},
		{"empty field skipped", map[string]any{"a": "", "b": "Beta", "c": "Gamma"}, "beta-gamma"},
		{"sparse group still wins", map[string]any{"b": "Beta", "d": "Delta"}, "beta"},
		{"later field", map[string]any{"a": nil, "d": "Delta"}, "delta"},
		{"non-string values", map[string]any{"a": 42}, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := newModel(opts, tt.attrs)
			got, err := sluggable.New(nil).DeriveWith(context.Background(), rec, opts.AllowDuplicateSlugs())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugger_DefaultOptions(t *testing.T) {
	t.Parallel()

	s := sluggable.New(nil, sluggable.WithDefaultOptions(sluggable.DefaultSlugOptions().AllowDuplicateSlugs()))

	tests := []struct {
		name  string
		attrs map[string]any
		want  string
	}{
		{"title", map[string]any{"title": "Hello World", "name": "ignored"}, "hello-world"},
		{"nome cognome", map[string]any{"nome": "Mario", "cognome": "Rossi"}, "mario-rossi"},
		{"first last", map[string]any{"first_name": "Ada", "last_name": "Lovelace"}, "ada-lovelace"},
		{"code", map[string]any{"codice": "AB 12"}, "ab-12"},
		{"id", map[string]any{"id": 15}, "15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := sluggable.NewUnsavedMapRecord("id", tt.attrs)
			require.NoError(t, s.DeriveAndAssign(context.Background(), rec))

			got, _ := rec.Get("slug")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugger_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts sluggable.SlugOptions
		want error
	}{
		{"missing source", sluggable.NewSlugOptions().SaveSlugsTo("url"), sluggable.ErrMissingSourceSpecification},
		{"blank source fields", sluggable.NewSlugOptions().GenerateSlugsFrom(sluggable.Field(""), sluggable.Concat()).SaveSlugsTo("url"), sluggable.ErrMissingSourceSpecification},
		{"missing slug field", sluggable.NewSlugOptions().GenerateSlugsFrom(sluggable.Field("name")), sluggable.ErrMissingSlugField},
		{"zero length", testOptions().SlugsShouldBeNoLongerThan(0), sluggable.ErrInvalidMaximumLength},
		{"negative length", testOptions().SlugsShouldBeNoLongerThan(-1), sluggable.ErrInvalidMaximumLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := newModel(tt.opts, map[string]any{"name": "value", "url": "x"})
			err := sluggable.New(newStore()).DeriveAndAssign(context.Background(), rec)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, sluggable.ErrInvalidOption)
			require.True(t, sluggable.IsConfigurationError(err))
		})
	}
}

func TestSlugger_RepositoryErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rec := newModel(testOptions(), map[string]any{"name": "value"})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		repo := sluggable.RepositoryFunc(func(context.Context, string, string, any) (bool, error) {
			return false, boom
		})

		_, err := sluggable.New(repo).Derive(ctx, rec)
		require.ErrorIs(t, err, sluggable.ErrRepository)
		require.ErrorIs(t, err, boom)
		require.False(t, sluggable.IsConfigurationError(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := sluggable.New(newStore()).Derive(cctx, rec)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no repository", func(t *testing.T) {
		t.Parallel()

		_, err := sluggable.New(nil).Derive(ctx, rec)
		require.ErrorIs(t, err, sluggable.ErrNoRepository)
	})
}

func TestSlugger_LengthBound(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"123456789",
		"a very long title with many words in it",
		"Ünïcödé ß æ œ ø",
		"日本語のタイトル mixed",
		"",
	}

	for _, maxLen := range []int{3, 5, 8, 20} {
		t.Run(fmt.Sprintf("max %d", maxLen), func(t *testing.T) {
			t.Parallel()

			store := newStore()
			opts := testOptions().SlugsShouldBeNoLongerThan(maxLen).SaveCustomSlugsTo("custom")
			for _, in := range inputs {
				for range 12 {
					rec := newModel(opts, map[string]any{"name": in})
					require.NoError(t, store.Save(context.Background(), rec))
					assert.LessOrEqual(t, utf8.RuneCountInString(urlOf(t, rec)), maxLen, "input %q", in)
				}

				rec := newModel(opts.SkipCustomNormalization(), map[string]any{"custom": strings.Repeat("ü", 30)})
				require.NoError(t, store.Save(context.Background(), rec))
				assert.LessOrEqual(t, utf8.RuneCountInString(urlOf(t, rec)), maxLen)
			}
		})
	}
}

func TestSlugger_UniquenessSuffixesFitMaximumLength(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore()
	opts := testOptions().SlugsShouldBeNoLongerThan(5)

	want := []string{"12345", "123-1", "123-2", "123-3", "123-4", "123-5", "123-6", "123-7", "123-8", "123-9", "12-10"}
	seen := make(map[string]bool)
	for i, w := range want {
		rec := newModel(opts, map[string]any{"name": "123456789"})
		require.NoError(t, store.Save(ctx, rec))
		got := urlOf(t, rec)
		assert.Equal(t, w, got, "record %d", i)
		assert.False(t, seen[got], "suffix reused")
		seen[got] = true
	}
}

func TestSlugger_EmptyCandidateIsDisambiguated(t *testing.T) {
	t.Parallel()

	rec := newModel(testOptions(), map[string]any{"name": "€€€"})
	require.NoError(t, newStore().Save(context.Background(), rec))
	assert.Equal(t, "-1", urlOf(t, rec))
}

func TestSlugger_Deterministic(t *testing.T) {
	t.Parallel()

	opts := testOptions().TransliterateWith("de", map[string]string{"+": " plus "})
	s := sluggable.New(newStore())

	rec := newModel(opts, map[string]any{"name": "Größe + Maß"})
	first, err := s.Derive(context.Background(), rec)
	require.NoError(t, err)
	for range 5 {
		again, err := s.Derive(context.Background(), rec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, "groesse-plus-mass", first)
}

func TestSlugger_WithRandom(t *testing.T) {
	t.Parallel()

	s := sluggable.New(nil, sluggable.WithRandom(func(n int) string { return strings.Repeat("z", n+10) }))
	rec := newModel(testOptions().AllowDuplicateSlugs().RandomSlugsShouldBeNoLongerThan(4), map[string]any{})

	got, err := s.Derive(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "zzzz", got)
}

func TestSlugger_WithTransliterator(t *testing.T) {
	t.Parallel()

	upper := sluggable.TransliteratorFunc(func(text, _ string, _ map[string]string, sep string) string {
		return strings.ReplaceAll(strings.ToUpper(text), " ", sep)
	})
	s := sluggable.New(nil, sluggable.WithTransliterator(upper))
	rec := newModel(testOptions().AllowDuplicateSlugs().SlugsSeparator("_"), map[string]any{"name": "a b c"})

	got, err := s.Derive(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "A_B_C", got)
}

func TestSlugger_CounterLongerThanMaximumLength(t *testing.T) {
	t.Parallel()

	taken := sluggable.RepositoryFunc(func(context.Context, string, string, any) (bool, error) {
		return true, nil
	})
	rec := newModel(testOptions().SlugsShouldBeNoLongerThan(1), map[string]any{"name": "a"})

	_, err := sluggable.New(taken).Derive(context.Background(), rec)
	require.ErrorIs(t, err, sluggable.ErrSlugSpaceExhausted)
	require.ErrorIs(t, err, sluggable.ErrInvalidMaximumLength)
	assert.True(t, sluggable.IsConfigurationError(err))
}

func TestSlugger_SingleRuneSlugsUseEveryDigit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newStore()
	opts := testOptions().SlugsShouldBeNoLongerThan(1)

	want := []string{"a", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	for i, w := range want {
		rec := newModel(opts, map[string]any{"name": "a"})
		require.NoError(t, store.Save(ctx, rec))
		assert.Equal(t, w, urlOf(t, rec), "record %d", i)
	}

	err := store.Save(ctx, newModel(opts, map[string]any{"name": "a"}))
	require.ErrorIs(t, err, sluggable.ErrSlugSpaceExhausted)
}

func TestSlugger_AngleBracketsSeparateWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"x<y", "x-y"},
		{"a<b c>d", "a-b-c-d"},
		{"Vector<T> in C++", "vector-t-in-c"},
	}

	store := newStore()
	for _, tt := range tests {
		rec := newModel(testOptions(), map[string]any{"name": tt.name})
		require.NoError(t, store.Save(context.Background(), rec))
		assert.Equal(t, tt.want, urlOf(t, rec))
	}
}
