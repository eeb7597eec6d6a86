package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/stretchr/testify/mock"
)

type MockIndex struct {
	mock.Mock
}

func (m *MockIndex) Lookup(ctx context.Context, query string, profile matching.Profile) ([]matching.Match, error) {
	args := m.Called(ctx, query, profile)
	matches, _ := args.Get(0).([]matching.Match)
	return matches, args.Error(1)
}

func (m *MockIndex) Rebuild(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
