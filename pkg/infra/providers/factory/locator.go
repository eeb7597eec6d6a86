package factory

import (
	"fmt"

	"github.com/NeuralTrust/BarButler/pkg/infra/bedrock"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers/anthropic"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers/azure"
	bedrockProvider "github.com/NeuralTrust/BarButler/pkg/infra/providers/bedrock"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers/gemini"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers/openai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderAzure     = "azure"
)

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	httpClient    httpx.Client
	bedrockClient bedrock.Client
}

func NewProviderLocator(httpClient httpx.Client, bedrockClient bedrock.Client) ProviderLocator {
	return &providerLocator{
		httpClient:    httpClient,
		bedrockClient: bedrockClient,
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	switch provider {
	case ProviderOpenAI:
		return openai.NewOpenaiClient(), nil
	case ProviderGoogle:
		return gemini.NewGeminiClient(), nil
	case ProviderAnthropic:
		return anthropic.NewAnthropicClient(), nil
	case ProviderBedrock:
		return bedrockProvider.NewBedrockClient(f.bedrockClient), nil
	case ProviderAzure:
		return azure.NewAzureClient(f.httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
