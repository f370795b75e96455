package naming

import "github.com/agext/levenshtein"

// MinSimilarity is the score a candidate needs to be suggested.
const MinSimilarity = 0.6

// Similarity scores two option names between 0 and 1 by edit distance over
// runes, after snake-casing both. 1 means identical names.
func Similarity(a, b string) float64 {
	return levenshtein.Similarity(SnakeCase(a), SnakeCase(b), nil)
}

// Suggest returns the candidate most similar to name, if any candidate is
// similar enough. Ties go to the earlier candidate.
func Suggest(name string, candidates []string) (string, bool) {
	best, bestScore := "", MinSimilarity

	for _, c := range candidates {
		if score := Similarity(name, c); score >= bestScore && (best == "" || score > bestScore) {
			best, bestScore = c, score
		}
	}

	return best, best != ""
}
