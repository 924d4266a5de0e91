// Package similarity compares term-count vectors.
package similarity

import (
	"math"

	"resumerank/internal/domain"
)

// Cosine returns dot(a, b) / (|a| * |b|) clamped to [0, 1].
// The result is 0 when either vector has zero norm.
func Cosine(candidate, reference domain.DocumentVector) (float64, error) {
	if len(candidate) != len(reference) {
		return 0, &domain.DimensionMismatchError{Candidate: len(candidate), Reference: len(reference)}
	}
	nc := dot(candidate, candidate)
	nr := dot(reference, reference)
	if nc == 0 || nr == 0 {
		return 0, nil
	}
	// Squared norms are exact integers, so identical vectors give exactly 1.
	return clamp(dot(candidate, reference) / math.Sqrt(nc*nr)), nil
}

func dot(a, b domain.DocumentVector) float64 {
	sum := 0.0
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// clamp absorbs rounding such as 1.0000000000000002.
func clamp(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
