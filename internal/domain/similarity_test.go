package domain

import (
	"math"
	"testing"
)

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"zero distance", 0.0, 1.0},
		{"typical cosine", 0.1, 0.9},
		{"distance above one yields negative similarity", 1.4, -0.4},
		{"nan coerces to zero", math.NaN(), 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Similarity(tc.distance)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Similarity(%v) = %v, want %v", tc.distance, got, tc.want)
			}
		})
	}
}

func TestFilterByThreshold(t *testing.T) {
	hits := []Hit{
		{ID: "a", Distance: 0.1}, // sim 0.9
		{ID: "b", Distance: 0.5}, // sim 0.5
		{ID: "c", Distance: 0.7}, // sim 0.3
	}

	kept := FilterByThreshold(hits, 0.45)
	if len(kept) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(kept))
	}
	if kept[0].ID != "a" || kept[1].ID != "b" {
		t.Errorf("order not preserved: %v", kept)
	}
}

func TestFilterByThreshold_Idempotent(t *testing.T) {
	hits := []Hit{
		{ID: "a", Distance: 0.1},
		{ID: "b", Distance: 0.8},
	}

	once := FilterByThreshold(hits, 0.5)
	twice := FilterByThreshold(once, 0.5)
	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("hit %d changed on refilter: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestFilterByThreshold_NaNDistanceDropped(t *testing.T) {
	hits := []Hit{{ID: "bad", Distance: math.NaN()}}
	if kept := FilterByThreshold(hits, 0.1); len(kept) != 0 {
		t.Errorf("NaN distance should fail any positive floor, kept %v", kept)
	}
}

func TestBestSimilarity_EmptyDefaultsToZero(t *testing.T) {
	if got := BestSimilarity(nil); got != 0.0 {
		t.Errorf("BestSimilarity(nil) = %v, want 0.0", got)
	}
}

func TestBestSimilarity_NegativeBestPreserved(t *testing.T) {
	// All hits worse than the empty default: the scan must still report the
	// actual best, not clamp at 0.0.
	hits := []Hit{
		{Distance: 1.5}, // sim -0.5
		{Distance: 1.2}, // sim -0.2
	}
	if got := BestSimilarity(hits); math.Abs(got-(-0.2)) > 1e-12 {
		t.Errorf("BestSimilarity = %v, want -0.2", got)
	}
}

func TestNeedsDisclaimer_Boundary(t *testing.T) {
	const floor = 0.35 // threshold is floor*0.75 = 0.2625

	// Best similarity exactly at the threshold: strict < must NOT fire.
	at := []Hit{{Distance: 1.0 - 0.2625}}
	if NeedsDisclaimer(at, floor) {
		t.Error("similarity exactly at floor*0.75 must not trigger the disclaimer")
	}

	// Just below the threshold: must fire.
	below := []Hit{{Distance: 1.0 - 0.2624}}
	if !NeedsDisclaimer(below, floor) {
		t.Error("similarity below floor*0.75 must trigger the disclaimer")
	}
}

func TestNeedsDisclaimer_NoHitsAlwaysFires(t *testing.T) {
	for _, floor := range []float64{0.01, 0.35, 0.9} {
		if !NeedsDisclaimer(nil, floor) {
			t.Errorf("zero hits must trigger the disclaimer for floor %v", floor)
		}
	}
}
