package sluggable

import "strings"

// resolveSource scans groups in order and returns the first one that yields
// text on rec. A single field is skipped when its name or trimmed value is
// blank; a concat group is chosen when its members joined without a
// separator are non-empty.
func resolveSource(rec Record, groups []Group) (Group, bool) {
	for _, g := range groups {
		if !g.concat {
			if len(g.fields) == 0 {
				continue
			}
			name := g.fields[0]
			if strings.TrimSpace(name) == "" {
				continue
			}
			if strings.TrimSpace(text(rec.Get(name))) == "" {
				continue
			}
			return g, true
		}

		if buildSource(rec, g, "") != "" {
			return g, true
		}
	}
	return Group{}, false
}

// buildSource joins the values of the group's fields with sep. Missing,
// nil and blank-named fields contribute an empty string.
func buildSource(rec Record, g Group, sep string) string {
	parts := make([]string, len(g.fields))
	for i, name := range g.fields {
		if name == "" {
			continue
		}
		parts[i] = text(rec.Get(name))
	}
	return strings.Join(parts, sep)
}
