package factory

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/NeuralTrust/BarButler/pkg/infra/bedrock"
	embeddingBedrock "github.com/NeuralTrust/BarButler/pkg/infra/embedding/bedrock"
	"github.com/NeuralTrust/BarButler/pkg/infra/embedding/gemini"
	"github.com/NeuralTrust/BarButler/pkg/infra/embedding/openai"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const (
	OpenAIProvider  = "openai"
	AzureProvider   = "azure"
	OllamaProvider  = "ollama"
	GoogleProvider  = "google"
	BedrockProvider = "bedrock"

	ollamaBaseURL = "http://localhost:11434/v1"
)

type EmbeddingServiceLocator struct {
	logger        *logrus.Logger
	httpClient    httpx.Client
	bedrockClient bedrock.Client
}

func NewServiceLocator(logger *logrus.Logger, httpClient httpx.Client, bedrockClient bedrock.Client) *EmbeddingServiceLocator {
	return &EmbeddingServiceLocator{
		logger:        logger,
		httpClient:    httpClient,
		bedrockClient: bedrockClient,
	}
}

func (l *EmbeddingServiceLocator) GetService(ctx context.Context, cfg embedding.Config) (embedding.Creator, error) {
	switch cfg.Provider {
	case OpenAIProvider:
		return openai.NewOpenAIEmbeddingService(l.httpClient, cfg, l.logger), nil
	case AzureProvider:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("azure embeddings: base_url is required")
		}
		if cfg.Credentials.HeaderName == "" {
			cfg.Credentials.HeaderName = "api-key"
			cfg.Credentials.HeaderValue = cfg.Credentials.ApiKey
		}
		return openai.NewOpenAIEmbeddingService(l.httpClient, cfg, l.logger), nil
	case OllamaProvider:
		if cfg.BaseURL == "" {
			cfg.BaseURL = ollamaBaseURL
		}
		return openai.NewOpenAIEmbeddingService(l.httpClient, cfg, l.logger), nil
	case GoogleProvider:
		return gemini.NewGeminiEmbeddingService(ctx, cfg, l.logger)
	case BedrockProvider:
		return embeddingBedrock.NewTitanEmbeddingService(l.bedrockClient, cfg, l.logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", embedding.ErrUnsupportedProvider, cfg.Provider)
	}
}
