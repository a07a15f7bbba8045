package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Ignore matches child file names against the configured ignore patterns.
// It never applies to the folder that triggered an event. A nil *Ignore
// matches nothing.
type Ignore struct {
	patterns []string
}

func NewIgnore(patterns []string) (*Ignore, error) {
	if bad, ok := ValidatePatterns(patterns); !ok {
		return nil, fmt.Errorf("invalid ignore pattern %q", bad)
	}

	return &Ignore{patterns: patterns}, nil
}

// Match reports whether rel, a path relative to the folder being relocated,
// is ignored. Patterns without a slash are matched against every path
// component, patterns with one against the whole relative path.
func (i *Ignore) Match(rel string) bool {
	if i == nil || len(i.patterns) == 0 {
		return false
	}

	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")

	for _, pattern := range i.patterns {
		if strings.Contains(pattern, "/") {
			if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
				return true
			}
			continue
		}

		for _, part := range parts {
			if matched, err := doublestar.Match(pattern, part); err == nil && matched {
				return true
			}
		}
	}

	return false
}

// ValidatePatterns reports the first malformed pattern.
func ValidatePatterns(patterns []string) (string, bool) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return pattern, false
		}
	}
	return "", true
}
