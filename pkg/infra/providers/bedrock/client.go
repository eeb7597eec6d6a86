package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bedrockClient "github.com/NeuralTrust/BarButler/pkg/infra/bedrock"
	"github.com/NeuralTrust/BarButler/pkg/infra/providers"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	ModelPrefixAnthropicClaude = "anthropic.claude"
	ModelPrefixAmazonTitan     = "amazon.titan"
	ModelPrefixMetaLlama       = "meta.llama"

	anthropicBedrockVersion = "bedrock-2023-05-31"
	defaultMaxTokens        = 256
)

type Request struct {
	// Anthropic Claude (messages API)
	AnthropicVersion string                   `json:"anthropic_version,omitempty"`
	Messages         []map[string]interface{} `json:"messages,omitempty"`
	System           string                   `json:"system,omitempty"`
	MaxTokens        int                      `json:"max_tokens,omitempty"`

	// Amazon Titan
	InputText            string                 `json:"inputText,omitempty"`
	TextGenerationConfig map[string]interface{} `json:"textGenerationConfig,omitempty"`

	// Meta Llama and others
	Prompt    string  `json:"prompt,omitempty"`
	MaxGenLen int     `json:"max_gen_len,omitempty"`
	TopP      float64 `json:"top_p,omitempty"`

	Temperature float64 `json:"temperature,omitempty"`
}

type Response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content,omitempty"`
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results,omitempty"`
	Generation string `json:"generation,omitempty"`
	Completion string `json:"completion,omitempty"`
	OutputText string `json:"outputText,omitempty"`
}

type client struct {
	bedrockClient bedrockClient.Client
}

func NewBedrockClient(bc bedrockClient.Client) providers.Client {
	return &client{
		bedrockClient: bc,
	}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	runtime, err := c.bedrockClient.BuildClient(ctx, toBedrockCredentials(config.Credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
	}

	body, err := json.Marshal(prepareRequest(config, prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(config.Model),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke model: %w", err)
	}

	responseText, err := parseResponse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &providers.CompletionResponse{
		ID:       fmt.Sprintf("bedrock-%d", time.Now().UnixNano()),
		Model:    config.Model,
		Response: responseText,
	}, nil
}

func toBedrockCredentials(creds providers.Credentials) bedrockClient.Credentials {
	if creds.AwsBedrock == nil {
		return bedrockClient.Credentials{}
	}
	return bedrockClient.Credentials{
		AccessKey:    creds.AwsBedrock.AccessKey,
		SecretKey:    creds.AwsBedrock.SecretKey,
		SessionToken: creds.AwsBedrock.SessionToken,
		Region:       creds.AwsBedrock.Region,
		UseRole:      creds.AwsBedrock.UseRole,
		RoleARN:      creds.AwsBedrock.RoleARN,
	}
}

func prepareRequest(config *providers.Config, prompt string) *Request {
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	switch {
	case strings.Contains(config.Model, ModelPrefixAnthropicClaude):
		var messages []map[string]interface{}
		if len(config.Instructions) > 0 {
			messages = append(messages, map[string]interface{}{
				"role":    "user",
				"content": providers.FormatInstructions(config.Instructions),
			})
		}
		messages = append(messages, map[string]interface{}{
			"role":    "user",
			"content": prompt,
		})
		return &Request{
			AnthropicVersion: anthropicBedrockVersion,
			System:           config.SystemPrompt,
			Messages:         messages,
			MaxTokens:        maxTokens,
			Temperature:      config.Temperature,
		}
	case strings.Contains(config.Model, ModelPrefixAmazonTitan):
		return &Request{
			InputText: fullPrompt(config, prompt),
			TextGenerationConfig: map[string]interface{}{
				"maxTokenCount": maxTokens,
				"temperature":   config.Temperature,
			},
		}
	case strings.Contains(config.Model, ModelPrefixMetaLlama):
		return &Request{
			Prompt:      fullPrompt(config, prompt),
			MaxGenLen:   maxTokens,
			Temperature: config.Temperature,
			TopP:        0.9,
		}
	default:
		return &Request{
			Prompt:      fullPrompt(config, prompt),
			MaxTokens:   maxTokens,
			Temperature: config.Temperature,
		}
	}
}

func fullPrompt(config *providers.Config, prompt string) string {
	var b strings.Builder
	if config.SystemPrompt != "" {
		b.WriteString(config.SystemPrompt)
		b.WriteString("\n\n")
	}
	if len(config.Instructions) > 0 {
		b.WriteString(providers.FormatInstructions(config.Instructions))
		b.WriteString("\n\n")
	}
	b.WriteString(prompt)
	return b.String()
}

func parseResponse(body []byte) (string, error) {
	var response Response
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var text string
	switch {
	case len(response.Content) > 0:
		for _, content := range response.Content {
			if content.Type == "text" {
				text = content.Text
				break
			}
		}
	case len(response.Results) > 0:
		text = response.Results[0].OutputText
	case response.Generation != "":
		text = response.Generation
	case response.Completion != "":
		text = response.Completion
	default:
		text = response.OutputText
	}

	if text == "" {
		return "", fmt.Errorf("no text content returned")
	}
	return text, nil
}
