package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/domain/movie"
	"github.com/stretchr/testify/mock"
)

type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) Search(ctx context.Context, title string) (*movie.Movie, error) {
	args := m.Called(ctx, title)
	mv, _ := args.Get(0).(*movie.Movie)
	return mv, args.Error(1)
}
