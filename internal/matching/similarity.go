// Package matching implements the item-matching engine: fuzzy string
// similarity, color/category keyword heuristics, the weighted similarity
// scorer and the match finder. Everything here is pure and stateless; the
// caller supplies an in-memory snapshot of the item corpus.
package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns a normalized edit-distance ratio between two strings in
// [0,1]. Comparison is case-insensitive with leading/trailing whitespace
// trimmed. Identical normalized strings yield 1.0 and an empty side yields
// 0.0. Otherwise the result is 1 - editDistance/len(longer): the ratio is
// always normalized by the longer string's length, so short queries against
// long targets score low rather than high.
func Similarity(a, b string) float64 {
	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))

	if s1 == s2 {
		return 1
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	longer, shorter := s1, s2
	if utf8.RuneCountInString(s2) > utf8.RuneCountInString(s1) {
		longer, shorter = s2, s1
	}

	length := utf8.RuneCountInString(longer)
	distance := levenshtein.ComputeDistance(longer, shorter)

	return float64(length-distance) / float64(length)
}
