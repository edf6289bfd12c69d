package tour

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity normalized edit-distance score in 0..1 of two names after
// trimming. Empty names never match.
func Similarity(a, b string) float64 {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
