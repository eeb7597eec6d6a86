package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/NeuralTrust/BarButler/pkg/infra/cache"
)

type redisEmbeddingRepository struct {
	cache cache.Client
}

// NewRedisEmbeddingRepository keeps one snapshot per vocabulary under
// vocabulary:embeddings:<name>, without expiry.
func NewRedisEmbeddingRepository(c cache.Client) embedding.Repository {
	return &redisEmbeddingRepository{cache: c}
}

func (r *redisEmbeddingRepository) Store(ctx context.Context, name string, snapshot *embedding.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding snapshot: %w", err)
	}
	return r.cache.Set(ctx, fmt.Sprintf(cache.EmbeddingKeyPattern, name), string(data), 0)
}

func (r *redisEmbeddingRepository) Load(ctx context.Context, name string) (*embedding.Snapshot, error) {
	data, err := r.cache.Get(ctx, fmt.Sprintf(cache.EmbeddingKeyPattern, name))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, embedding.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding snapshot from cache: %w", err)
	}

	var snapshot embedding.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding snapshot: %w", err)
	}
	return &snapshot, nil
}

func (r *redisEmbeddingRepository) Delete(ctx context.Context, name string) error {
	existed, err := r.cache.Delete(ctx, fmt.Sprintf(cache.EmbeddingKeyPattern, name))
	if err != nil {
		return fmt.Errorf("failed to delete embedding snapshot: %w", err)
	}
	if !existed {
		return embedding.ErrSnapshotNotFound
	}
	return nil
}
