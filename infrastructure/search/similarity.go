// Package search implements in-memory cosine similarity ranking over
// stored event embeddings.
package search

import (
	"math"
	"sort"

	"github.com/minddeck/minddeck/domain/brain"
	"github.com/minddeck/minddeck/domain/memory"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical), and false
// when the vectors have different lengths, are empty, or either has
// zero magnitude. A length mismatch means the vectors came from
// different embedding models and must not be compared.
func CosineSimilarity(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), true
}

// BestSimilarity scores a candidate vector against every query
// variation and returns the maximum. A candidate only needs to match
// the best phrasing, not all of them. Returns false when no variation
// was comparable (dimension mismatch across the board).
func BestSimilarity(variations [][]float64, candidate []float64) (float64, bool) {
	best := math.Inf(-1)
	matched := false
	for _, v := range variations {
		score, ok := CosineSimilarity(v, candidate)
		if !ok {
			continue
		}
		matched = true
		if score > best {
			best = score
		}
	}
	if !matched {
		return 0, false
	}
	return best, true
}

// Rank scores every candidate against the query variations and returns
// the top limit results in descending similarity order. The sort is
// stable, so equal scores keep candidate order. Candidates with no
// comparable vector are excluded rather than mis-scored.
func Rank(variations [][]float64, candidates []memory.Candidate, limit int) []brain.ScoredEvent {
	if len(candidates) == 0 || limit <= 0 {
		return []brain.ScoredEvent{}
	}

	scored := make([]brain.ScoredEvent, 0, len(candidates))
	for _, c := range candidates {
		score, ok := BestSimilarity(variations, c.Vector())
		if !ok {
			continue
		}
		scored = append(scored, brain.NewScoredEvent(c.Event(), score))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity() > scored[j].Similarity()
	})

	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}
