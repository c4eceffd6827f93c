// Package similarity decides whether a freshly captured vector matches the
// enrolled one. Cosine similarity is a coarse gate: false-accept and
// false-reject rates depend entirely on upstream vector quality.
package similarity

import "math"

// DefaultThreshold is the acceptance threshold used unless a caller
// overrides it.
const DefaultThreshold = 0.6

// Cosine returns the cosine similarity of two equal-length vectors: their
// dot product divided by the product of their Euclidean norms. If either
// vector has zero norm the similarity is 0, never a division by zero.
// The result is in [-1, 1] up to floating-point error.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Decide reports whether similarity meets threshold.
func Decide(similarity, threshold float64) bool {
	return similarity >= threshold
}
