package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAffirmationResolver struct {
	mock.Mock
}

func (m *MockAffirmationResolver) IsAffirmative(ctx context.Context, text string) (bool, error) {
	args := m.Called(ctx, text)
	return args.Bool(0), args.Error(1)
}
