package matching_test

import (
	"context"
	"testing"

	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSentimentEmbedder() *fakeEmbedder {
	return newFakeEmbedder(map[string][]float64{
		"yes":          {1, 0, 0},
		"no":           {0, 1, 0},
		"yeah sure":    {0.9, 0.2, 0.3},
		"nah I'm good": {0.1, 0.8, 0.4},
		"whatever":     {0.5, 0.5, 0.7},
	})
}

func TestSentimentResolver_IsAffirmative(t *testing.T) {
	emb := newSentimentEmbedder()
	resolver := matching.NewSentimentResolver(emb)

	tests := []struct {
		text string
		want bool
	}{
		{"yeah sure", true},
		{"nah I'm good", false},
		{"yes", true},
		{"no", false},
		{"whatever", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := resolver.IsAffirmative(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 1, emb.BatchCalls(), "anchors are embedded once")
}

func TestSentimentResolver_AnchorFailure(t *testing.T) {
	emb := newSentimentEmbedder()
	emb.setFailBatch(errEmbedderDown)
	resolver := matching.NewSentimentResolver(emb)

	_, err := resolver.IsAffirmative(context.Background(), "yeah sure")
	assert.ErrorIs(t, err, matching.ErrMatchingUnavailable)

	emb.setFailBatch(nil)
	got, err := resolver.IsAffirmative(context.Background(), "yeah sure")
	require.NoError(t, err)
	assert.True(t, got)
}
