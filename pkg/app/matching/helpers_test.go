package matching_test

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
	"sync"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/sirupsen/logrus"
)

// fakeEmbedder returns fixed vectors for known texts and a hash-seeded vector
// for anything else, so results are reproducible without a model.
type fakeEmbedder struct {
	mu         sync.Mutex
	model      string
	vectors    map[string][]float64
	dims       int
	failBatch  error
	failSingle error
	batchCalls int
	calls      int
}

func newFakeEmbedder(vectors map[string][]float64) *fakeEmbedder {
	dims := 4
	for _, v := range vectors {
		dims = len(v)
		break
	}
	return &fakeEmbedder{model: "fake-v1", vectors: vectors, dims: dims}
}

func (f *fakeEmbedder) vector(text string) []float64 {
	if v, ok := f.vectors[text]; ok {
		out := make([]float64, len(v))
		copy(out, v)
		return out
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	out := make([]float64, f.dims)
	for i := range out {
		seed = seed*6364136223846793005 + 1442695040888963407
		out[i] = float64(seed>>33)/float64(1<<31) - 1
	}
	return out
}

func (f *fakeEmbedder) Generate(_ context.Context, text string) (*embedding.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failSingle != nil {
		return nil, f.failSingle
	}
	return &embedding.Embedding{EntityID: text, Value: f.vector(text)}, nil
}

func (f *fakeEmbedder) GenerateBatch(_ context.Context, texts []string) ([]*embedding.Embedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	if f.failBatch != nil {
		return nil, f.failBatch
	}
	out := make([]*embedding.Embedding, len(texts))
	for i, t := range texts {
		out[i] = &embedding.Embedding{EntityID: t, Value: f.vector(t)}
	}
	return out, nil
}

func (f *fakeEmbedder) ModelVersion() string { return f.model }

func (f *fakeEmbedder) Close() error { return nil }

func (f *fakeEmbedder) BatchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.batchCalls
}

func (f *fakeEmbedder) setFailBatch(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failBatch = err
}

// memoryRepository keeps snapshots in a map.
type memoryRepository struct {
	mu        sync.Mutex
	snapshots map[string]*embedding.Snapshot
	stores    int
	deletes   int
	loadErr   error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{snapshots: make(map[string]*embedding.Snapshot)}
}

func (r *memoryRepository) Load(_ context.Context, name string) (*embedding.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	s, ok := r.snapshots[name]
	if !ok {
		return nil, embedding.ErrSnapshotNotFound
	}
	return s, nil
}

func (r *memoryRepository) Store(_ context.Context, name string, s *embedding.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores++
	r.snapshots[name] = s
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes++
	if _, ok := r.snapshots[name]; !ok {
		return embedding.ErrSnapshotNotFound
	}
	delete(r.snapshots, name)
	return nil
}

func (r *memoryRepository) Stores() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stores
}

func (r *memoryRepository) Deletes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deletes
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var errEmbedderDown = errors.New("embedder down")

// tastingVectors places each tag on its own axis; the free-text phrases are
// mixtures chosen so their nearest tags are known.
var tastingVectors = map[string][]float64{
	"smoky":         {1, 0, 0, 0},
	"sweet":         {0, 1, 0, 0},
	"complex":       {0, 0, 1, 0},
	"fruity":        {0, 0, 0, 1},
	"sophisticated": {0.2, 0, 0.9, 0.1},
	"campfire":      {0.8, 0.3, 0.1, 0},
	"joy":           {0.1, 0.6, 0.1, 0.5},
	"void":          {-1, -1, -1, -1},
}
