package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const DefaultModel = "text-embedding-004"

// ContentEmbedder is the genai models surface used here.
type ContentEmbedder interface {
	EmbedContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.EmbedContentConfig,
	) (*genai.EmbedContentResponse, error)
}

type embeddingService struct {
	models ContentEmbedder
	model  string
	logger *logrus.Logger
}

func NewGeminiEmbeddingService(ctx context.Context, cfg embedding.Config, logger *logrus.Logger) (embedding.Creator, error) {
	if cfg.Credentials.ApiKey == "" {
		return nil, fmt.Errorf("gemini embeddings: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Credentials.ApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewWithModels(client.Models, cfg.Model, logger), nil
}

func NewWithModels(models ContentEmbedder, model string, logger *logrus.Logger) embedding.Creator {
	if model == "" {
		model = DefaultModel
	}
	return &embeddingService{models: models, model: model, logger: logger}
}

func (s *embeddingService) Generate(ctx context.Context, text string) (*embedding.Embedding, error) {
	embs, err := s.GenerateBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embs[0], nil
}

func (s *embeddingService) GenerateBatch(ctx context.Context, texts []string) ([]*embedding.Embedding, error) {
	if len(texts) == 0 {
		return []*embedding.Embedding{}, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: t}}}
	}

	start := time.Now()
	resp, err := s.models.EmbedContent(ctx, s.model, contents, nil)
	prometheus.ObserveExternalCall("embeddings", start)
	if err != nil {
		s.logger.WithError(err).Error("gemini embed content failed")
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors", embedding.ErrEmptyEmbedding, len(texts))
	}

	now := time.Now()
	out := make([]*embedding.Embedding, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, embedding.ErrEmptyEmbedding
		}
		v := make([]float64, len(e.Values))
		for j, f := range e.Values {
			v[j] = float64(f)
		}
		embedding.Normalize(v)
		out[i] = &embedding.Embedding{EntityID: texts[i], Value: v, CreatedAt: now}
	}
	return out, nil
}

func (s *embeddingService) ModelVersion() string {
	return "gemini:" + s.model
}

func (s *embeddingService) Close() error {
	return nil
}
