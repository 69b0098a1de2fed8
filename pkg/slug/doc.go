// Package slug folds arbitrary text into lowercase ASCII words joined by a
// separator.
//
// It is the primitive behind the default transliterator of the root
// sluggable package, which owns source selection and collision counters.
// Make never consults storage.
//
//	slug.Make("Hello, World!")                      // "hello-world"
//	slug.Make("Café crème", slug.Separator("_"))    // "cafe_creme"
//	slug.Make("Very long title", slug.MaxLength(9)) // "very-long"
//	slug.Make("Fish @ Home", slug.CustomReplace(map[string]string{"@": " at "}))
//	// "fish-at-home"
//
// Latin diacritics fold to their base letters. Other scripts and symbols
// become separators, and a run of them collapses into one.
package slug
