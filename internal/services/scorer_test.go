package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1.0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0.0,
		},
		{
			name: "zero vector does not divide by zero",
			a:    []float32{0, 0, 0},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "mismatched lengths",
			a:    []float32{1, 2},
			b:    []float32{1, 2, 3},
			want: 0.0,
		},
		{
			name: "empty vectors",
			a:    nil,
			b:    nil,
			want: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilarityPercentage(t *testing.T) {
	assert.Equal(t, 100.0, SimilarityPercentage(1.0))
	assert.Equal(t, 0.0, SimilarityPercentage(-1.0))
	assert.Equal(t, 50.0, SimilarityPercentage(0.0))
	assert.Equal(t, 75.0, SimilarityPercentage(0.5))
}

func TestATSScore(t *testing.T) {
	tests := []struct {
		name          string
		matchRatio    float64
		coverage      float64
		similarityPct float64
		want          float64
	}{
		{"perfect candidate", 1.0, 1.0, 100, 100.0},
		{"no signal at all", 0, 0, 0, 0.0},
		{"half skills, half coverage, half similarity", 0.5, 0.5, 50, 50.0},
		{"similarity only", 0, 0, 100, 20.0},
		{"skills only", 1.0, 1.0, 0, 80.0},
		{"rounded to one decimal", 1.0 / 3.0, 1.0 / 3.0, 33.3, 33.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ATSScore(tt.matchRatio, tt.coverage, tt.similarityPct))
		})
	}
}
