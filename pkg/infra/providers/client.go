package providers

import (
	"context"
)

type Config struct {
	Credentials  Credentials            `mapstructure:"credentials" json:"credentials"`
	Model        string                 `mapstructure:"model" json:"model"`
	MaxTokens    int                    `mapstructure:"max_tokens" json:"max_tokens,omitempty"`
	Temperature  float64                `mapstructure:"temperature" json:"temperature,omitempty"`
	SystemPrompt string                 `mapstructure:"system_prompt" json:"system_prompt,omitempty"`
	Instructions []string               `mapstructure:"instructions" json:"instructions,omitempty"`
	Options      map[string]interface{} `mapstructure:"options" json:"options,omitempty"`
}

type Credentials struct {
	ApiKey     string                 `mapstructure:"api_key" json:"api_key"`
	Azure      *AzureCredentials      `mapstructure:"azure" json:"azure,omitempty"`
	AwsBedrock *AwsBedrockCredentials `mapstructure:"aws_bedrock" json:"aws_bedrock,omitempty"`
}

type AzureCredentials struct {
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	ApiVersion  string `mapstructure:"api_version" json:"api_version"`
	UseIdentity bool   `mapstructure:"use_managed_identity" json:"use_managed_identity"`
}

type AwsBedrockCredentials struct {
	Region       string `mapstructure:"region" json:"region"`
	AccessKey    string `mapstructure:"access_key" json:"access_key"`
	SecretKey    string `mapstructure:"secret_key" json:"secret_key"`
	SessionToken string `mapstructure:"session_token" json:"session_token"`
	UseRole      bool   `mapstructure:"use_role" json:"use_role"`
	RoleARN      string `mapstructure:"role_arn" json:"role_arn"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore

type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
}
