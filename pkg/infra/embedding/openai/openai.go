package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
)

type embeddingService struct {
	client httpx.Client
	cfg    embedding.Config
	logger *logrus.Logger
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type openAIEmbeddingResponse struct {
	Data []embeddingData `json:"data"`
}

// NewOpenAIEmbeddingService serves any OpenAI-compatible /embeddings endpoint
// (OpenAI, Azure OpenAI through a custom header, Ollama, vLLM).
func NewOpenAIEmbeddingService(client httpx.Client, cfg embedding.Config, logger *logrus.Logger) embedding.Creator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &embeddingService{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
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

	pBytes, err := json.Marshal(embeddingRequest{
		Model: s.cfg.Model,
		Input: texts,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to marshal embedding request payload")
		return nil, err
	}

	start := time.Now()
	resp, err := s.client.Do(ctx, &httpx.Request{
		Method:  fasthttp.MethodPost,
		URL:     strings.TrimRight(s.cfg.BaseURL, "/") + "/embeddings",
		Headers: s.headers(),
		Body:    pBytes,
	})
	prometheus.ObserveExternalCall("embeddings", start)
	if err != nil {
		s.logger.WithError(err).Error("error performing HTTP request for embeddings")
		return nil, err
	}

	if !resp.OK() {
		s.logger.WithField("response", string(resp.Body)).Error("non-OK response from embeddings API")
		return nil, fmt.Errorf("%w: %d", embedding.ErrProviderNonOKResponse, resp.StatusCode)
	}

	var embResp openAIEmbeddingResponse
	if err := json.Unmarshal(resp.Body, &embResp); err != nil {
		s.logger.WithError(err).Error("failed to decode embeddings response")
		return nil, err
	}

	if len(embResp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d vectors, got %d", embedding.ErrEmptyEmbedding, len(texts), len(embResp.Data))
	}

	sort.Slice(embResp.Data, func(i, j int) bool {
		return embResp.Data[i].Index < embResp.Data[j].Index
	})

	now := time.Now()
	out := make([]*embedding.Embedding, len(texts))
	for i, d := range embResp.Data {
		if len(d.Embedding) == 0 {
			return nil, embedding.ErrEmptyEmbedding
		}
		embedding.Normalize(d.Embedding)
		out[i] = &embedding.Embedding{
			EntityID:  texts[i],
			Value:     d.Embedding,
			CreatedAt: now,
		}
	}
	return out, nil
}

func (s *embeddingService) headers() map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	creds := s.cfg.Credentials
	switch {
	case creds.HeaderName != "":
		h[creds.HeaderName] = creds.HeaderValue
	case creds.ApiKey != "":
		h["Authorization"] = "Bearer " + creds.ApiKey
	}
	return h
}

func (s *embeddingService) ModelVersion() string {
	return "openai:" + s.cfg.Model
}

func (s *embeddingService) Close() error {
	return nil
}
