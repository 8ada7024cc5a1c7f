// Package similarity provides the string-distance primitive shared by the
// transaction matcher and the duplicate detector.
//
// Scores are normalized edit distances: 1.0 means identical, 0.0 means no
// character survives the transformation. The functions here are pure and do
// no normalization of their own; callers that want case-insensitive
// comparison lower-case both strings before calling.
package similarity

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// unitCosts configures classic Levenshtein distance: insertion, deletion
// and substitution each cost 1 (the library default weighs substitutions
// at 2, which would double-count replacements).
var unitCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// EditDistance returns the Levenshtein distance between a and b, counted
// in runes.
func EditDistance(a, b string) int {
	return levenshtein.DistanceForStrings([]rune(a), []rune(b), unitCosts)
}

// Similarity returns a score in [0,1] for how close the two strings are:
// (maxLen - EditDistance(a,b)) / maxLen over rune counts. Two empty strings
// are identical by convention and score 1.0.
func Similarity(a, b string) float64 {
	runesA := []rune(a)
	runesB := []rune(b)

	maxLen := len(runesA)
	if len(runesB) > maxLen {
		maxLen = len(runesB)
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.DistanceForStrings(runesA, runesB, unitCosts)
	return float64(maxLen-distance) / float64(maxLen)
}
