package domain

import "math"

// disclaimerFactor scales the minimum-similarity floor for disclaimer gating.
// Fixed design constant, not derived from any other setting.
const disclaimerFactor = 0.75

// Similarity converts a distance into a similarity score (1 - distance).
// The result is a ranking/filtering score, not a calibrated probability: it
// may be negative or exceed 1.0 for unusual metrics and both are valid.
// A NaN distance coerces to 0.0 so bad index data never poisons a filter.
func Similarity(distance float64) float64 {
	if math.IsNaN(distance) {
		return 0.0
	}
	return 1.0 - distance
}

// FilterByThreshold keeps hits whose similarity is at or above floor,
// preserving input order. Filtering an already-filtered sequence with the
// same floor is a no-op.
func FilterByThreshold(hits []Hit, floor float64) []Hit {
	kept := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if Similarity(h.Distance) >= floor {
			kept = append(kept, h)
		}
	}
	return kept
}

// BestSimilarity returns the highest similarity among hits, or 0.0 when hits
// is empty.
func BestSimilarity(hits []Hit) float64 {
	best := 0.0
	for i, h := range hits {
		s := Similarity(h.Distance)
		if i == 0 || s > best {
			best = s
		}
	}
	return best
}

// NeedsDisclaimer reports whether retrieval evidence is too weak to trust the
// generated text without an appended assumptions block. It compares the best
// pre-filter similarity against minSimilarity*0.75 with a strict less-than.
//
// With zero hits BestSimilarity is 0.0, so the disclaimer fires for any
// positive floor. "No hits" and "hits exist but all very dissimilar" are
// indistinguishable here.
func NeedsDisclaimer(hits []Hit, minSimilarity float64) bool {
	return BestSimilarity(hits) < minSimilarity*disclaimerFactor
}
