package training

import (
	"regexp"
	"strings"
)

// SimilarityThreshold is the minimum Jaccard similarity for FindSimilar to
// consider a history entry a match.
const SimilarityThreshold = 0.70

var reNonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
var reSpaces = regexp.MustCompile(`\s+`)

// FindSimilar scans examples for the entry whose raw text is most similar
// to text, returning it with its similarity when the threshold is met.
// Offline tooling only: the live pipeline never consults history.
func FindSimilar(examples []Example, text string) (Example, float64, bool) {
	if normalizeForComparison(text) == "" {
		return Example{}, 0, false
	}

	var (
		best     Example
		bestSim  float64
		foundAny bool
	)
	for _, ex := range examples {
		sim := Similarity(text, ex.RawText)
		if sim >= SimilarityThreshold && sim > bestSim {
			best, bestSim, foundAny = ex, sim, true
		}
	}
	return best, bestSim, foundAny
}

// Similarity computes Jaccard word-set similarity between two texts,
// case-insensitive and punctuation-blind, damped when one text is less
// than half the length of the other.
func Similarity(a, b string) float64 {
	a = normalizeForComparison(a)
	b = normalizeForComparison(b)
	if a == "" || b == "" {
		return 0
	}
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	jaccard := float64(inter) / float64(union)

	minLen, maxLen := len(a), len(b)
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if float64(minLen)/float64(maxLen) < 0.5 {
		jaccard *= 0.7
	}
	return jaccard
}

func normalizeForComparison(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reNonWord.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}
