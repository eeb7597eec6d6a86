package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/NeuralTrust/BarButler/pkg/domain/vocabulary"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBatchSize   = 64
	defaultConcurrency = 4
	buildKey           = "vocabulary-index"
)

var ErrMatchingUnavailable = errors.New("semantic matching unavailable")

type Profile struct {
	Threshold float64 `mapstructure:"threshold" json:"threshold"`
	TopK      int     `mapstructure:"top_k" json:"top_k"`
}

var DefaultProfile = Profile{Threshold: 0.5, TopK: 1}

type Match struct {
	Tag   string  `json:"tag"`
	Score float64 `json:"score"`
}

//go:generate mockery --name=Index --dir=. --output=./mocks --filename=index_mock.go --case=underscore

type Index interface {
	Lookup(ctx context.Context, query string, profile Profile) ([]Match, error)
	Rebuild(ctx context.Context) error
}

type IndexOption func(*VocabularyIndex)

func WithBatchSize(n int) IndexOption {
	return func(ix *VocabularyIndex) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

func WithConcurrency(n int) IndexOption {
	return func(ix *VocabularyIndex) {
		if n > 0 {
			ix.concurrency = n
		}
	}
}

// VocabularyIndex embeds every vocabulary tag once and answers nearest-tag
// queries against those vectors. The snapshot is built on first use and then
// kept for the lifetime of the process; a failed build is retried on the next
// lookup.
type VocabularyIndex struct {
	vocab       *vocabulary.Vocabulary
	creator     embedding.Creator
	repo        embedding.Repository
	logger      *logrus.Logger
	batchSize   int
	concurrency int

	group    singleflight.Group
	mu       sync.RWMutex
	snapshot *embedding.Snapshot
}

// NewVocabularyIndex accepts a nil vocabulary, in which case every lookup
// fails with ErrMatchingUnavailable.
func NewVocabularyIndex(
	vocab *vocabulary.Vocabulary,
	creator embedding.Creator,
	repo embedding.Repository,
	logger *logrus.Logger,
	opts ...IndexOption,
) *VocabularyIndex {
	ix := &VocabularyIndex{
		vocab:       vocab,
		creator:     creator,
		repo:        repo,
		logger:      logger,
		batchSize:   defaultBatchSize,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

func (ix *VocabularyIndex) Lookup(ctx context.Context, query string, profile Profile) ([]Match, error) {
	if profile.TopK <= 0 {
		return []Match{}, nil
	}

	snapshot, err := ix.ensure(ctx)
	if err != nil {
		prometheus.TagLookupsTotal.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	q, err := ix.creator.Generate(ctx, query)
	if err != nil {
		prometheus.TagLookupsTotal.WithLabelValues("unavailable").Inc()
		return nil, fmt.Errorf("%w: embed query: %w", ErrMatchingUnavailable, err)
	}

	matches := rank(snapshot, q.Value, profile)
	if len(matches) == 0 {
		prometheus.TagLookupsTotal.WithLabelValues("empty").Inc()
	} else {
		prometheus.TagLookupsTotal.WithLabelValues("match").Inc()
	}
	for _, m := range matches {
		prometheus.MatchScore.Observe(m.Score)
	}

	ix.logger.WithFields(logrus.Fields{
		"query":     query,
		"threshold": profile.Threshold,
		"top_k":     profile.TopK,
		"matches":   len(matches),
	}).Debug("vocabulary lookup")

	return matches, nil
}

// Rebuild removes the persisted snapshot, embeds the vocabulary again and
// persists the result. A failed rebuild leaves no cache behind.
func (ix *VocabularyIndex) Rebuild(ctx context.Context) error {
	if ix.vocab == nil {
		return fmt.Errorf("%w: %w", ErrMatchingUnavailable, vocabulary.ErrEmptyVocabulary)
	}
	_, err, _ := ix.group.Do(buildKey, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		err := ix.repo.Delete(ctx, ix.vocab.Name())
		switch {
		case err == nil:
			ix.logger.WithField("vocabulary", ix.vocab.Name()).Info("removed cached vocabulary embeddings")
		case !errors.Is(err, embedding.ErrSnapshotNotFound):
			ix.logger.WithError(err).Warn("failed to remove cached vocabulary embeddings")
		}

		snapshot, err := ix.build(ctx)
		if err != nil {
			return nil, err
		}
		ix.setSnapshot(snapshot)
		return snapshot, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMatchingUnavailable, err)
	}
	return nil
}

// Warm loads the cached snapshot, building it only when the cache is
// missing or stale.
func (ix *VocabularyIndex) Warm(ctx context.Context) error {
	_, err := ix.ensure(ctx)
	return err
}

func (ix *VocabularyIndex) ensure(ctx context.Context) (*embedding.Snapshot, error) {
	ix.mu.RLock()
	snapshot := ix.snapshot
	ix.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	if ix.vocab == nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchingUnavailable, vocabulary.ErrEmptyVocabulary)
	}

	v, err, _ := ix.group.Do(buildKey, func() (interface{}, error) {
		ix.mu.RLock()
		current := ix.snapshot
		ix.mu.RUnlock()
		if current != nil {
			return current, nil
		}
		loaded, err := ix.loadOrBuild(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		ix.setSnapshot(loaded)
		return loaded, nil
	})
	if err != nil {
		ix.logger.WithError(err).Error("vocabulary index initialization failed")
		return nil, fmt.Errorf("%w: %w", ErrMatchingUnavailable, err)
	}
	snapshot, ok := v.(*embedding.Snapshot)
	if !ok {
		return nil, fmt.Errorf("%w: invalid snapshot type %T", ErrMatchingUnavailable, v)
	}
	return snapshot, nil
}

func (ix *VocabularyIndex) loadOrBuild(ctx context.Context) (*embedding.Snapshot, error) {
	tags := ix.vocab.Tags()
	fingerprint := ix.vocab.Fingerprint(ix.creator.ModelVersion())

	cached, err := ix.repo.Load(ctx, ix.vocab.Name())
	switch {
	case err == nil && cached.Matches(fingerprint, tags):
		ix.logger.WithFields(logrus.Fields{
			"vocabulary": ix.vocab.Name(),
			"tags":       ix.vocab.Len(),
			"dimensions": cached.Dimensions,
		}).Info("loaded vocabulary embeddings from cache")
		return cached, nil
	case err == nil:
		ix.logger.WithField("vocabulary", ix.vocab.Name()).Info("vocabulary embedding cache is stale, rebuilding")
	case errors.Is(err, embedding.ErrSnapshotNotFound):
		ix.logger.WithField("vocabulary", ix.vocab.Name()).Info("no vocabulary embedding cache, building")
	default:
		ix.logger.WithError(err).Warn("failed to read vocabulary embedding cache, rebuilding")
	}

	return ix.build(ctx)
}

func (ix *VocabularyIndex) build(ctx context.Context) (*embedding.Snapshot, error) {
	tags := ix.vocab.Tags()
	model := ix.creator.ModelVersion()
	vectors := make([][]float64, len(tags))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)
	for start := 0; start < len(tags); start += ix.batchSize {
		end := min(start+ix.batchSize, len(tags))
		g.Go(func() error {
			embs, err := ix.creator.GenerateBatch(gctx, tags[start:end])
			if err != nil {
				return fmt.Errorf("embed tags %d-%d: %w", start, end, err)
			}
			if len(embs) != end-start {
				return fmt.Errorf("embed tags %d-%d: got %d vectors", start, end, len(embs))
			}
			for i, e := range embs {
				if e.Dimensions() == 0 {
					return fmt.Errorf("embed tag %q: %w", tags[start+i], embedding.ErrEmptyEmbedding)
				}
				vectors[start+i] = e.Value
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := embedding.NewSnapshot(ix.vocab.Fingerprint(model), model, tags, vectors)
	for i, v := range vectors {
		if len(v) != snapshot.Dimensions {
			return nil, fmt.Errorf("tag %q has %d dimensions, expected %d", tags[i], len(v), snapshot.Dimensions)
		}
	}

	if err := ix.repo.Store(ctx, ix.vocab.Name(), snapshot); err != nil {
		ix.logger.WithError(err).Warn("failed to persist vocabulary embeddings")
	}

	ix.logger.WithFields(logrus.Fields{
		"vocabulary": ix.vocab.Name(),
		"model":      model,
		"tags":       ix.vocab.Len(),
		"dimensions": snapshot.Dimensions,
	}).Info("built vocabulary embeddings")

	return snapshot, nil
}

func (ix *VocabularyIndex) setSnapshot(s *embedding.Snapshot) {
	ix.mu.Lock()
	ix.snapshot = s
	ix.mu.Unlock()
}

// rank keeps the top k entries by score and then drops those under the
// threshold. Equal scores keep vocabulary order.
func rank(snapshot *embedding.Snapshot, query []float64, profile Profile) []Match {
	scored := make([]Match, len(snapshot.Tags))
	for i, tag := range snapshot.Tags {
		scored[i] = Match{Tag: tag, Score: embedding.CosineSimilarity(query, snapshot.Vectors[i])}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > profile.TopK {
		scored = scored[:profile.TopK]
	}

	out := make([]Match, 0, len(scored))
	for _, m := range scored {
		if m.Score >= profile.Threshold {
			out = append(out, m)
		}
	}
	return out
}
