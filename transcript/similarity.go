// Package transcript reconciles out-of-order, overlapping transcription
// results into one coherent session transcript.
package transcript

import "strings"

// Similarity is the normalized edit-distance similarity of two strings:
// 1 - levenshtein/len(longer), case-insensitive. Symmetric and reflexive;
// two empty strings score 1.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	la, lb := len([]rune(a)), len([]rune(b))
	longer := la
	if lb > la {
		longer = lb
	}
	if longer == 0 {
		return 1.0
	}
	return float64(longer-levenshtein(a, b)) / float64(longer)
}

// TokenOverlap is the ratio of shared whitespace-separated tokens to the
// smaller token set, case-insensitive. Zero if either side has no tokens.
func TokenOverlap(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared++
		}
	}
	min := len(ta)
	if len(tb) < min {
		min = len(tb)
	}
	return float64(shared) / float64(min)
}

func tokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range strings.Fields(strings.ToLower(s)) {
		out[f] = struct{}{}
	}
	return out
}

// levenshtein computes edit distance with a single rolling row.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cur := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min3(row[j]+1, row[j-1]+1, prev+cost)
			prev = cur
		}
	}
	return row[len(rb)]
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
