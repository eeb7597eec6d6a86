package azure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/NeuralTrust/BarButler/pkg/infra/httpx"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
)

const (
	defaultApiVersion    = "2024-02-15-preview"
	cognitiveServicesURL = "https://cognitiveservices.azure.com/.default"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// TokenSource returns a bearer token for Azure AD authentication.
type TokenSource func(ctx context.Context) (string, error)

type client struct {
	httpClient httpx.Client
	tokens     TokenSource
}

type Option func(*client)

func WithTokenSource(ts TokenSource) Option {
	return func(c *client) {
		c.tokens = ts
	}
}

// NewAzureClient talks to Azure OpenAI deployments. It authenticates with the
// api-key header or, when use_managed_identity is set, with an Azure AD token.
func NewAzureClient(httpClient httpx.Client, opts ...Option) providers.Client {
	c := &client{
		httpClient: httpClient,
		tokens:     newDefaultTokenSource(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	azure := config.Credentials.Azure
	if azure == nil {
		return nil, fmt.Errorf("azure configuration is required")
	}
	if azure.Endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model (deployment ID) is required")
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if azure.UseIdentity {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get Azure AD token: %w", err)
		}
		headers["Authorization"] = "Bearer " + token
	} else {
		if config.Credentials.ApiKey == "" {
			return nil, fmt.Errorf("API key is required when not using Azure identity")
		}
		headers["api-key"] = config.Credentials.ApiKey
	}

	var messages []chatMessage
	if config.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: config.SystemPrompt})
	}
	if len(config.Instructions) > 0 {
		messages = append(messages, chatMessage{Role: "user", Content: providers.FormatInstructions(config.Instructions)})
	}
	if prompt != "" {
		messages = append(messages, chatMessage{Role: "user", Content: prompt})
	}

	body, err := json.Marshal(chatRequest{
		Messages:    messages,
		Temperature: config.Temperature,
		MaxTokens:   config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	apiVersion := defaultApiVersion
	if azure.ApiVersion != "" {
		apiVersion = azure.ApiVersion
	}
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", azure.Endpoint, config.Model, apiVersion)

	resp, err := c.httpClient.Do(ctx, &httpx.Request{
		Method:  "POST",
		URL:     url,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed request: %w", err)
	}
	if !resp.OK() {
		return nil, resp.StatusError("azure openai")
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no completions returned")
	}

	id := parsed.ID
	if id == "" {
		id = fmt.Sprintf("azure-%d", time.Now().UnixNano())
	}

	return &providers.CompletionResponse{
		ID:       id,
		Model:    config.Model,
		Response: parsed.Choices[0].Message.Content,
		Usage: providers.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}, nil
}

// newDefaultTokenSource builds the credential chain once and reuses it.
func newDefaultTokenSource() TokenSource {
	var (
		once    sync.Once
		cred    azcore.TokenCredential
		credErr error
	)
	return func(ctx context.Context) (string, error) {
		once.Do(func() {
			cred, credErr = azidentity.NewDefaultAzureCredential(nil)
		})
		if credErr != nil {
			return "", fmt.Errorf("failed to create credential: %w", credErr)
		}
		token, err := cred.GetToken(ctx, policy.TokenRequestOptions{
			Scopes: []string{cognitiveServicesURL},
		})
		if err != nil {
			return "", fmt.Errorf("failed to get token: %w", err)
		}
		return token.Token, nil
	}
}
