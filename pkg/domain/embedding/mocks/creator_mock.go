package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/stretchr/testify/mock"
)

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) Generate(ctx context.Context, text string) (*embedding.Embedding, error) {
	args := m.Called(ctx, text)
	emb, _ := args.Get(0).(*embedding.Embedding)
	return emb, args.Error(1)
}

func (m *MockCreator) GenerateBatch(ctx context.Context, texts []string) ([]*embedding.Embedding, error) {
	args := m.Called(ctx, texts)
	embs, _ := args.Get(0).([]*embedding.Embedding)
	return embs, args.Error(1)
}

func (m *MockCreator) ModelVersion() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCreator) Close() error {
	args := m.Called()
	return args.Error(0)
}
