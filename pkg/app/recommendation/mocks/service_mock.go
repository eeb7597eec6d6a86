package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/app/recommendation"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) FromMovie(ctx context.Context, sessionID, text string) (*recommendation.Result, error) {
	args := m.Called(ctx, sessionID, text)
	res, _ := args.Get(0).(*recommendation.Result)
	return res, args.Error(1)
}

func (m *MockService) FromTaste(ctx context.Context, sessionID, text string) (*recommendation.Result, error) {
	args := m.Called(ctx, sessionID, text)
	res, _ := args.Get(0).(*recommendation.Result)
	return res, args.Error(1)
}
