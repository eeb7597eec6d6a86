package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Ask(ctx context.Context, config *providers.Config, prompt string) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, config, prompt)
	resp, _ := args.Get(0).(*providers.CompletionResponse)
	return resp, args.Error(1)
}
