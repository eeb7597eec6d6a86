package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NeuralTrust/BarButler/pkg/domain/embedding"
	bedrockClient "github.com/NeuralTrust/BarButler/pkg/infra/bedrock"
	"github.com/NeuralTrust/BarButler/pkg/infra/prometheus"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultModel     = "amazon.titan-embed-text-v2:0"
	batchConcurrency = 4
)

type titanRequest struct {
	InputText string `json:"inputText"`
	Normalize bool   `json:"normalize"`
}

type titanResponse struct {
	Embedding []float64 `json:"embedding"`
}

type embeddingService struct {
	client bedrockClient.Client
	creds  bedrockClient.Credentials
	model  string
	logger *logrus.Logger
}

// NewTitanEmbeddingService embeds text with an Amazon Titan model. Titan takes
// one input per call, so batches fan out.
func NewTitanEmbeddingService(client bedrockClient.Client, cfg embedding.Config, logger *logrus.Logger) embedding.Creator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &embeddingService{
		client: client,
		creds: bedrockClient.Credentials{
			AccessKey: cfg.Credentials.AwsAccessKey,
			SecretKey: cfg.Credentials.AwsSecretKey,
			Region:    cfg.Credentials.AwsRegion,
			UseRole:   cfg.Credentials.AwsRoleARN != "",
			RoleARN:   cfg.Credentials.AwsRoleARN,
		},
		model:  model,
		logger: logger,
	}
}

func (s *embeddingService) Generate(ctx context.Context, text string) (*embedding.Embedding, error) {
	runtime, err := s.client.BuildClient(ctx, s.creds)
	if err != nil {
		return nil, err
	}
	return s.embed(ctx, runtime, text)
}

func (s *embeddingService) GenerateBatch(ctx context.Context, texts []string) ([]*embedding.Embedding, error) {
	runtime, err := s.client.BuildClient(ctx, s.creds)
	if err != nil {
		return nil, err
	}

	out := make([]*embedding.Embedding, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		g.Go(func() error {
			e, err := s.embed(gctx, runtime, text)
			if err != nil {
				return err
			}
			out[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *embeddingService) embed(ctx context.Context, runtime bedrockClient.RuntimeAPI, text string) (*embedding.Embedding, error) {
	body, err := json.Marshal(titanRequest{InputText: text, Normalize: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	resp, err := runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	prometheus.ObserveExternalCall("embeddings", start)
	if err != nil {
		s.logger.WithError(err).Error("titan embedding request failed")
		return nil, fmt.Errorf("failed to invoke model: %w", err)
	}

	var parsed titanResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode titan response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, embedding.ErrEmptyEmbedding
	}
	embedding.Normalize(parsed.Embedding)
	return &embedding.Embedding{EntityID: text, Value: parsed.Embedding, CreatedAt: time.Now()}, nil
}

func (s *embeddingService) ModelVersion() string {
	return "bedrock:" + s.model
}

func (s *embeddingService) Close() error {
	return nil
}
