// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package figures

import (
	"fmt"
	"slices"

	"github.com/gobwas/glob"
)

// Selection describes which figures to keep. A block is kept when
// (Indices is empty or holds its index) and (Patterns is empty or its name
// matches at least one pattern).
type Selection struct {
	Indices  []int
	Patterns []string
}

// IsEmpty reports whether the selection keeps every block.
func (s Selection) IsEmpty() bool {
	return len(s.Indices) == 0 && len(s.Patterns) == 0
}

// Predicate compiles the name patterns and returns the inclusion predicate.
// An invalid pattern is reported before any document is processed.
func (s Selection) Predicate() (Predicate, error) {
	globs := make([]glob.Glob, 0, len(s.Patterns))
	for _, p := range s.Patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	indices := slices.Clone(s.Indices)

	return func(index int, name string) bool {
		if len(indices) > 0 && !slices.Contains(indices, index) {
			return false
		}
		if len(globs) == 0 {
			return true
		}
		for _, g := range globs {
			if g.Match(name) {
				return true
			}
		}
		return false
	}, nil
}
