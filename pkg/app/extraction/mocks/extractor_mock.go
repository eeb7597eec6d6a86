package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) MovieTitle(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockExtractor) TastingNotes(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	notes, _ := args.Get(0).([]string)
	return notes, args.Error(1)
}

func (m *MockExtractor) Emotion(ctx context.Context, overview string) (string, error) {
	args := m.Called(ctx, overview)
	return args.String(0), args.Error(1)
}
