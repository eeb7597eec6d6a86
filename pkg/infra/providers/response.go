package providers

import "strings"

// CompletionResponse is the provider-neutral result of a single Ask.
type CompletionResponse struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Response string `json:"response"`
	Usage    Usage  `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Text returns the completion with surrounding whitespace and quotes removed.
func (r *CompletionResponse) Text() string {
	return strings.Trim(strings.TrimSpace(r.Response), "\"'`")
}
