package capture

import (
	"fmt"

	"github.com/gobwas/glob"
)

// IgnoreList holds glob patterns for clipboard text that must never be
// stored, such as tokens or passwords copied from a manager.
type IgnoreList struct {
	patterns []glob.Glob
}

// NewIgnoreList compiles patterns. A nil or empty slice ignores nothing.
func NewIgnoreList(patterns []string) (*IgnoreList, error) {
	l := &IgnoreList{}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern '%s': %w", p, err)
		}
		l.patterns = append(l.patterns, g)
	}
	return l, nil
}

// Match reports whether text matches any pattern. A nil list matches
// nothing.
func (l *IgnoreList) Match(text string) bool {
	if l == nil {
		return false
	}
	for _, g := range l.patterns {
		if g.Match(text) {
			return true
		}
	}
	return false
}
