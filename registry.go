package sluggable

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownCollection = errors.New("sluggable: unknown collection")
	ErrInvalidRegistry   = errors.New("sluggable: invalid options registry")
)

// Registry holds named SlugOptions, one per record collection.
type Registry struct {
	collections map[string]SlugOptions
}

// NewRegistry creates a registry from in-code options.
func NewRegistry(collections map[string]SlugOptions) *Registry {
	return &Registry{collections: maps.Clone(collections)}
}

// Lookup returns the options registered for name.
func (r *Registry) Lookup(name string) (SlugOptions, error) {
	opts, ok := r.collections[name]
	if !ok {
		return SlugOptions{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return opts, nil
}

// Names returns the registered collection names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.collections))
}

// collectionSpec is the YAML form of SlugOptions. Unset fields keep the
// NewSlugOptions defaults.
//
//	collections:
//	  articles:
//	    source: [title, [first_name, last_name], name]
//	    slug_field: slug
//	    custom_slug_field: slug_custom
//	    max_length: 120
//	    locale: de
//	    dictionary: {"+": plus}
type collectionSpec struct {
	Source             sourceList        `yaml:"source"`
	SlugField          string            `yaml:"slug_field"`
	CustomSlugField    string            `yaml:"custom_slug_field"`
	Unique             *bool             `yaml:"unique"`
	AllowEmptySource   *bool             `yaml:"allow_empty_source"`
	MaxLength          *int              `yaml:"max_length"`
	Separator          *string           `yaml:"separator"`
	RandomLength       *int              `yaml:"random_length"`
	NormalizeSource    *bool             `yaml:"normalize_source"`
	NormalizeCustom    *bool             `yaml:"normalize_custom"`
	Locale             string            `yaml:"locale"`
	Dictionary         map[string]string `yaml:"dictionary"`
	RegenerateOnUpdate bool              `yaml:"regenerate_on_update"`
}

type registryFile struct {
	Collections map[string]collectionSpec `yaml:"collections"`
}

// sourceList decodes a YAML sequence where scalars are single fields and
// nested sequences are concatenated groups. A bare scalar is one field.
type sourceList []Group

func (l *sourceList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = sourceList{Field(node.Value)}
		return nil
	case yaml.SequenceNode:
	default:
		return fmt.Errorf("line %d: source must be a field name or a list", node.Line)
	}

	groups := make(sourceList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			groups = append(groups, Field(item.Value))
		case yaml.SequenceNode:
			var names []string
			if err := item.Decode(&names); err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			groups = append(groups, Concat(names...))
		default:
			return fmt.Errorf("line %d: source entries must be names or lists of names", item.Line)
		}
	}
	*l = groups
	return nil
}

func (c collectionSpec) options() SlugOptions {
	opts := NewSlugOptions().
		GenerateSlugsFrom(c.Source...).
		SaveSlugsTo(c.SlugField).
		SaveCustomSlugsTo(c.CustomSlugField)

	if c.Unique != nil {
		opts.GenerateUniqueSlugs = *c.Unique
	}
	if c.AllowEmptySource != nil {
		opts.AllowEmptySource = *c.AllowEmptySource
	}
	if c.MaxLength != nil {
		opts.MaximumLength = *c.MaxLength
	}
	if c.Separator != nil {
		opts.Separator = *c.Separator
	}
	if c.RandomLength != nil {
		opts.RandomFallbackLength = *c.RandomLength
	}
	if c.NormalizeSource != nil {
		opts.NormalizeSourceSlug = *c.NormalizeSource
	}
	if c.NormalizeCustom != nil {
		opts.NormalizeCustomSlug = *c.NormalizeCustom
	}
	if c.Locale != "" || len(c.Dictionary) > 0 {
		opts = opts.TransliterateWith(c.Locale, c.Dictionary)
	}
	if c.RegenerateOnUpdate {
		opts = opts.RegenerateOnUpdate()
	}
	return opts
}

// LoadRegistry decodes a YAML registry and validates every collection.
func LoadRegistry(r io.Reader) (*Registry, error) {
	var file registryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Join(ErrInvalidRegistry, err)
	}

	collections := make(map[string]SlugOptions, len(file.Collections))
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(file.Collections)) {
		opts := file.Collections[name].options()
		if err := opts.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("collection %q: %w", name, err))
			continue
		}
		collections[name] = opts
	}
	if len(errs) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidRegistry}, errs...)...)
	}

	return &Registry{collections: collections}, nil
}
