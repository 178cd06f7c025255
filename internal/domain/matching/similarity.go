package matching

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityRatio is the longest-matching-blocks ratio 2*M/T over the
// characters of a and b. Two empty strings are fully similar.
func SimilarityRatio(a, b string) float64 {
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return clampFloat(m.Ratio(), 0, 1)
}
