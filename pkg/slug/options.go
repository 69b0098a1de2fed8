package slug

// Option configures slug generation.
type Option func(*config)

type config struct {
	replacements map[string]string
	separator    string
	maxLength    int
}

func defaultConfig() *config {
	return &config{separator: "-"}
}

// MaxLength limits the slug length in runes. Zero disables the limit.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = max(n, 0)
	}
}

// Separator sets the string placed between words.
// Default: "-"
func Separator(sep string) Option {
	return func(c *config) {
		c.separator = sep
	}
}

// CustomReplace applies literal string replacements before folding. Longer
// keys are replaced first so overlapping keys behave predictably. Repeated
// calls merge, and later values win on equal keys.
func CustomReplace(replacements map[string]string) Option {
	return func(c *config) {
		if len(replacements) == 0 {
			return
		}
		if c.replacements == nil {
			c.replacements = make(map[string]string, len(replacements))
		}
		for k, v := range replacements {
			if k != "" {
				c.replacements[k] = v
			}
		}
	}
}
