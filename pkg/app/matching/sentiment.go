package matching

import (
	"context"
	"fmt"
	"sync"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"golang.org/x/sync/singleflight"
)

const (
	affirmativeAnchor = "yes"
	negativeAnchor    = "no"
)

// SentimentResolver classifies a reply as yes or no by comparing it with the
// embeddings of the two anchor words. There is no neutral outcome: ties count
// as negative.
type SentimentResolver struct {
	creator embedding.Creator

	group   singleflight.Group
	mu      sync.RWMutex
	anchors *anchorPair
}

type anchorPair struct {
	yes []float64
	no  []float64
}

func NewSentimentResolver(creator embedding.Creator) *SentimentResolver {
	return &SentimentResolver{creator: creator}
}

func (s *SentimentResolver) IsAffirmative(ctx context.Context, text string) (bool, error) {
	anchors, err := s.loadAnchors(ctx)
	if err != nil {
		return false, err
	}
	emb, err := s.creator.Generate(ctx, text)
	if err != nil {
		return false, fmt.Errorf("%w: embed reply: %w", ErrMatchingUnavailable, err)
	}
	yes := embedding.CosineSimilarity(emb.Value, anchors.yes)
	no := embedding.CosineSimilarity(emb.Value, anchors.no)
	return yes > no, nil
}

func (s *SentimentResolver) loadAnchors(ctx context.Context) (*anchorPair, error) {
	s.mu.RLock()
	anchors := s.anchors
	s.mu.RUnlock()
	if anchors != nil {
		return anchors, nil
	}

	v, err, _ := s.group.Do("anchors", func() (interface{}, error) {
		embs, err := s.creator.GenerateBatch(context.WithoutCancel(ctx), []string{affirmativeAnchor, negativeAnchor})
		if err != nil {
			return nil, err
		}
		if len(embs) != 2 || embs[0].Dimensions() == 0 || embs[1].Dimensions() == 0 {
			return nil, embedding.ErrEmptyEmbedding
		}
		pair := &anchorPair{yes: embs[0].Value, no: embs[1].Value}
		s.mu.Lock()
		s.anchors = pair
		s.mu.Unlock()
		return pair, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: embed anchors: %w", ErrMatchingUnavailable, err)
	}
	return v.(*anchorPair), nil
}
