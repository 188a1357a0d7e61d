package sanity

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggest returns a "did you mean" hint naming the candidate closest to
// name, or "" when none is close enough.
func suggest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	lower := strings.ToLower(name)
	for _, cand := range candidates {
		if cand == name {
			continue
		}
		dist := levenshtein.ComputeDistance(lower, strings.ToLower(cand))
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best, bestDist = cand, dist
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean '%s'?", best)
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
