package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{0.1, 0.2, 0.3}, []float32{0.1, 0.2, 0.3}, 1.0},
		{"scaled copy", []float32{1, 2, 3}, []float32{2, 4, 6}, 1.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"zero norm a", []float32{0, 0, 0}, []float32{1, 2, 3}, 0.0},
		{"zero norm b", []float32{1, 2, 3}, []float32{0, 0, 0}, 0.0},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Cosine(tc.a, tc.b), 1e-6)
		})
	}
}

func TestDecide(t *testing.T) {
	assert.True(t, Decide(0.61, DefaultThreshold))
	assert.True(t, Decide(DefaultThreshold, DefaultThreshold))
	assert.False(t, Decide(0.59, DefaultThreshold))
	assert.False(t, Decide(0, DefaultThreshold))

	// caller-supplied threshold governs
	assert.False(t, Decide(0.61, 0.9))
	assert.True(t, Decide(0.2, 0.1))
}
