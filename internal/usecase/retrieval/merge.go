package retrieval

import (
	"math"
	"sort"

	"github.com/eplc-ai/ragd/internal/domain"
)

type rankedHit struct {
	hit    domain.Hit
	source int // registration order of the contributing source
	rank   int // position within that source's result list
}

// mergeRanked interleaves per-source result lists into a single list
// ordered by ascending distance, truncated to k. Ties break on source
// registration order, then on per-source rank, so the merge is
// deterministic across runs.
func mergeRanked(perSource [][]domain.Hit, k int) []domain.Hit {
	total := 0
	for _, hits := range perSource {
		total += len(hits)
	}
	if total == 0 {
		return nil
	}

	ranked := make([]rankedHit, 0, total)
	for si, hits := range perSource {
		for ri, h := range hits {
			ranked = append(ranked, rankedHit{hit: h, source: si, rank: ri})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.hit.Distance != b.hit.Distance {
			return distanceLess(a.hit.Distance, b.hit.Distance)
		}
		if a.source != b.source {
			return a.source < b.source
		}
		return a.rank < b.rank
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}

	merged := make([]domain.Hit, len(ranked))
	for i, r := range ranked {
		merged[i] = r.hit
	}
	return merged
}

// distanceLess orders distances ascending with NaN sorted last, so the
// comparator stays a strict weak ordering even on malformed scores.
func distanceLess(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	if aNaN || bNaN {
		return !aNaN && bNaN
	}
	return a < b
}
