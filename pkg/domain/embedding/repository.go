package embedding

import (
	"context"
)

type Repository interface {
	Load(ctx context.Context, name string) (*Snapshot, error)
	Store(ctx context.Context, name string, snapshot *Snapshot) error
	Delete(ctx context.Context, name string) error
}
