// Package origin matches browser origins against allow-list patterns.
//
// A pattern is "*" (any origin), an exact origin, or a glob such as
// "https://*.example.com" or "http://localhost:*". Matching is
// case-insensitive and ignores a trailing slash on the pattern.
package origin

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Any is the pattern allowing every origin.
const Any = "*"

// Match reports whether origin is allowed by any of patterns.
func Match(patterns []string, origin string) bool {
	origin = strings.ToLower(origin)
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(p), "/"))
		if p == Any || p == origin {
			return true
		}
		if ok, err := doublestar.Match(p, origin); err == nil && ok {
			return true
		}
	}
	return false
}

// AllowsAny reports whether patterns contain the wildcard.
func AllowsAny(patterns []string) bool {
	for _, p := range patterns {
		if strings.TrimSpace(p) == Any {
			return true
		}
	}
	return false
}

// Valid reports whether every pattern is well formed.
func Valid(patterns []string) bool {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(strings.ToLower(p)) {
			return false
		}
	}
	return true
}
