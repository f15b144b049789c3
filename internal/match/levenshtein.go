package match

import (
	"sort"
	"strings"
)

// Levenshtein computes the edit distance between two strings, counted in runes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}

	if len(rb) == 0 {
		return len(ra)
	}

	// Keep the shorter string in ra so the rows stay small.
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Similarity maps the edit distance to [0, 1], where 1 means identical.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(a, b))/float64(max(la, lb))
}

// MinSimilarity is the score below which a candidate is not worth suggesting.
const MinSimilarity = 0.6

// Suggest returns up to limit candidates similar to name, best first.
// Comparison is case-insensitive. A name that matches a candidate exactly
// needs no suggestion, so nil is returned for it.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	needle := strings.ToLower(name)

	for _, c := range candidates {
		if strings.ToLower(c) == needle {
			return nil
		}
	}

	var ranked []scored

	for _, c := range candidates {
		lc := strings.ToLower(c)

		score := Similarity(needle, lc)
		if strings.HasPrefix(lc, needle) || strings.HasPrefix(needle, lc) {
			score = max(score, MinSimilarity)
		}

		if score >= MinSimilarity {
			ranked = append(ranked, scored{name: c, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].name)
	}

	return out
}
