package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/app/conversation"
	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Start(ctx context.Context) (*conversation.Reply, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*conversation.Reply)
	return r, args.Error(1)
}

func (m *MockEngine) Handle(ctx context.Context, sessionID, text string) (*conversation.Reply, error) {
	args := m.Called(ctx, sessionID, text)
	r, _ := args.Get(0).(*conversation.Reply)
	return r, args.Error(1)
}

func (m *MockEngine) End(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
