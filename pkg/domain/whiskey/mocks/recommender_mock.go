package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/domain/whiskey"
	"github.com/stretchr/testify/mock"
)

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Shoot(ctx context.Context, tags []string) ([]whiskey.Whiskey, error) {
	args := m.Called(ctx, tags)
	ws, _ := args.Get(0).([]whiskey.Whiskey)
	return ws, args.Error(1)
}
