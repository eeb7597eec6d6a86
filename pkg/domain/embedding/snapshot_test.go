package embedding_test

import (
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Matches(t *testing.T) {
	tags := []string{"smoky", "sweet"}
	vectors := [][]float64{{1, 0}, {0, 1}}

	tests := []struct {
		name        string
		snapshot    *embedding.Snapshot
		fingerprint string
		tags        []string
		want        bool
	}{
		{"nil snapshot", nil, "fp", tags, false},
		{"same fingerprint and tags", embedding.NewSnapshot("fp", "m", tags, vectors), "fp", tags, true},
		{"fingerprint mismatch", embedding.NewSnapshot("other", "m", tags, vectors), "fp", tags, false},
		{"tag order changed", embedding.NewSnapshot("fp", "m", tags, vectors), "fp", []string{"sweet", "smoky"}, false},
		{"missing vector", embedding.NewSnapshot("fp", "m", tags, vectors[:1]), "fp", tags, false},
		{"ragged vectors", embedding.NewSnapshot("fp", "m", tags, [][]float64{{1, 0}, {1}}), "fp", tags, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snapshot.Matches(tt.fingerprint, tt.tags))
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, embedding.CosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, embedding.CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, embedding.CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, embedding.CosineSimilarity([]float64{1}, []float64{1, 0}))
	assert.Equal(t, 0.0, embedding.CosineSimilarity([]float64{0, 0}, []float64{1, 0}))
}

func TestNormalize(t *testing.T) {
	v := []float64{3, 4}
	embedding.Normalize(v)
	assert.InDelta(t, 0.6, v[0], 1e-9)
	assert.InDelta(t, 0.8, v[1], 1e-9)

	zero := []float64{0, 0}
	embedding.Normalize(zero)
	assert.Equal(t, []float64{0, 0}, zero)
}
