package store

import (
	"fmt"

	"github.com/gobwas/glob"
)

// vcsDirs are always excluded, independent of user patterns.
var vcsDirs = []string{".git"}

// Matcher reports whether a directory entry name is excluded from the index.
type Matcher struct {
	globs []glob.Glob
}

// NewMatcher compiles ignore patterns. Patterns match a single base name;
// "*" never crosses a path separator.
func NewMatcher(patterns []string) (Matcher, error) {
	m := Matcher{}
	for _, pattern := range append(append([]string(nil), vcsDirs...), patterns...) {
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return Matcher{}, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// Match reports whether name matches any ignore pattern.
func (m Matcher) Match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// MatchAny reports whether any segment of a relative path is ignored.
func (m Matcher) MatchAny(segments []string) bool {
	for _, segment := range segments {
		if m.Match(segment) {
			return true
		}
	}
	return false
}
