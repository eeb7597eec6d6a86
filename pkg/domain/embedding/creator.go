package embedding

import (
	"context"
)

// Creator turns text into vectors. Implementations are built once with a fixed
// model and must return vectors of the same dimension for every call.
type Creator interface {
	Generate(ctx context.Context, text string) (*Embedding, error)
	GenerateBatch(ctx context.Context, texts []string) ([]*Embedding, error)
	ModelVersion() string
	Close() error
}
