// Package suggest finds the closest known name for a mistyped identifier.
package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest returns the candidate nearest to input when it is within a third
// of the input length (at least one edit). The second return is false when
// nothing is close enough.
func Closest(input string, candidates []string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return "", false
	}
	limit := len(needle) / 3
	if limit < 1 {
		limit = 1
	}

	best, bestDist := "", limit+1
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(candidate))
		if dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best, best != ""
}

// Hint formats a " (did you mean %q?)" suffix, or "" when nothing is close.
func Hint(input string, candidates []string) string {
	if match, ok := Closest(input, candidates); ok {
		return ` (did you mean "` + match + `"?)`
	}
	return ""
}
