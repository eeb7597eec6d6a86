package mocks

import (
	"context"

	"github.com/NeuralTrust/BarButler/pkg/infra/bedrock"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/mock"
)

type MockRuntimeAPI struct {
	mock.Mock
}

func (m *MockRuntimeAPI) InvokeModel(
	ctx context.Context,
	params *bedrockruntime.InvokeModelInput,
	optFns ...func(*bedrockruntime.Options),
) (*bedrockruntime.InvokeModelOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*bedrockruntime.InvokeModelOutput)
	return out, args.Error(1)
}

type MockClient struct {
	mock.Mock
}

func (m *MockClient) BuildClient(ctx context.Context, creds bedrock.Credentials) (bedrock.RuntimeAPI, error) {
	args := m.Called(ctx, creds)
	rc, _ := args.Get(0).(bedrock.RuntimeAPI)
	return rc, args.Error(1)
}
