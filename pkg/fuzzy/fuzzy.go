// Package fuzzy provides small string-similarity helpers used to correct
// free-text input against a closed set of canonical values.
package fuzzy

import "strings"

// Match is the result of matching an input against a set of candidates.
type Match struct {
	Corrected        string
	WasAutoCorrected bool
}

// DefaultThreshold is the minimum normalized similarity required before a
// candidate is imposed on the input.
const DefaultThreshold = 0.8

// LevenshteinDistance returns the edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	m, n := len(ra), len(rb)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

// Similarity returns a normalized similarity score in [0,1]:
// 1 - distance / max(len(a), len(b)). Two empty strings are identical.
func Similarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// ClosestMatch corrects input against the candidate list. An exact
// case-insensitive match returns the canonical spelling without marking it as
// auto-corrected. Otherwise the candidate with the highest similarity wins,
// but only if it reaches threshold; below that the input is not corrected and
// an empty string is returned. Blank input short-circuits.
func ClosestMatch(input string, candidates []string, threshold float64) Match {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Match{}
	}

	for _, c := range candidates {
		if strings.ToLower(c) == normalized {
			return Match{Corrected: c}
		}
	}

	var best string
	var bestScore float64
	for _, c := range candidates {
		if score := Similarity(normalized, strings.ToLower(c)); score > bestScore {
			bestScore = score
			best = c
		}
	}

	if bestScore >= threshold {
		return Match{Corrected: best, WasAutoCorrected: true}
	}
	return Match{}
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
