package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
)

type fileEmbeddingRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileEmbeddingRepository keeps a single snapshot as JSON at path. The
// vocabulary name is not part of the file location.
func NewFileEmbeddingRepository(path string) embedding.Repository {
	return &fileEmbeddingRepository{path: path}
}

func (r *fileEmbeddingRepository) Load(_ context.Context, _ string) (*embedding.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, embedding.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read embedding snapshot: %w", err)
	}

	var snapshot embedding.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal embedding snapshot: %w", err)
	}
	return &snapshot, nil
}

// Store writes to a temporary file in the same directory and renames it over
// the target, so readers never see a partial snapshot.
func (r *fileEmbeddingRepository) Store(_ context.Context, _ string, snapshot *embedding.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (r *fileEmbeddingRepository) Delete(_ context.Context, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return embedding.ErrSnapshotNotFound
	}
	return err
}
