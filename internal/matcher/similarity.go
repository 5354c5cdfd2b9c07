package matcher

import "strings"

// NameSimilarity computes a normalized similarity ratio in [0,1] between two
// counterparty names. The matcher only depends on this narrow interface so
// the underlying algorithm can be swapped without touching its control flow.
type NameSimilarity interface {
	Ratio(a, b string) float64
}

// LevenshteinSimilarity scores names by normalized edit distance:
// 1 - distance/maxLen, computed over the lowercased, trimmed inputs.
type LevenshteinSimilarity struct{}

// NewLevenshteinSimilarity creates the default name similarity scorer
func NewLevenshteinSimilarity() *LevenshteinSimilarity {
	return &LevenshteinSimilarity{}
}

// Ratio implements the NameSimilarity interface
func (ls *LevenshteinSimilarity) Ratio(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)

	if a == b {
		return 1.0
	}

	if a == "" || b == "" {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)

	distance := levenshteinDistance(ra, rb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// normalizeName prepares a counterparty name for comparison
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// nameContains reports whether one normalized name contains the other.
// Bank statements frequently truncate or extend counterparty names
// ("ABC Co" vs "ABC Company"), so containment counts as full agreement.
func nameContains(a, b string) bool {
	a = normalizeName(a)
	b = normalizeName(b)

	if a == "" || b == "" {
		return false
	}

	return strings.Contains(a, b) || strings.Contains(b, a)
}

// levenshteinDistance computes the edit distance between two rune slices
// using a two-row dynamic programming table.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i

		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
