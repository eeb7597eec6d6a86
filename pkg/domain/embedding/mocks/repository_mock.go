package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Load(ctx context.Context, name string) (*embedding.Snapshot, error) {
	args := m.Called(ctx, name)
	s, _ := args.Get(0).(*embedding.Snapshot)
	return s, args.Error(1)
}

func (m *MockRepository) Store(ctx context.Context, name string, snapshot *embedding.Snapshot) error {
	args := m.Called(ctx, name, snapshot)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
