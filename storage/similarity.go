package storage

import (
	"cmp"
	"slices"

	"github.com/poiesic/creatorsearch/core"
)

// DotProduct calculates the dot product of two vectors.
// Extra components of the longer vector are ignored.
func DotProduct(a, b []float32) float32 {
	var sum float32
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// RankMatches sorts matches by score descending, ties by candidate ID,
// and truncates to limit when limit > 0.
func RankMatches(matches []core.SimilarityMatch, limit int) []core.SimilarityMatch {
	slices.SortFunc(matches, func(a, b core.SimilarityMatch) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.CandidateId, b.CandidateId)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
