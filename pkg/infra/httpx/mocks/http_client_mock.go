package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/stretchr/testify/mock"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(ctx context.Context, req *httpx.Request) (*httpx.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*httpx.Response)
	return resp, args.Error(1)
}
