package orchestration

import (
	"fmt"
	"path/filepath"
)

// FilterMethods returns the methods whose name matches at least one of the
// given glob patterns, in their original order. An empty patterns slice
// returns all methods unchanged.
func FilterMethods(methods []Method, patterns []string) ([]Method, error) {
	if len(patterns) == 0 {
		return methods, nil
	}

	var matched []Method
	for _, m := range methods {
		ok, err := matchesAny(m.Name, patterns)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// matchesAny reports whether name matches any pattern.
func matchesAny(name string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := filepath.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("invalid method filter pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
