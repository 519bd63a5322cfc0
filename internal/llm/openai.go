package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// OpenAIClient calls an OpenAI-compatible /chat/completions endpoint.
// Local servers that speak the same protocol work without an API key.
type OpenAIClient struct {
	baseClient
}

// NewOpenAIClient creates a client; missing fields take defaults.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	return &OpenAIClient{
		baseClient: newBaseClient(cfg, "https://api.openai.com/v1", "gpt-4o-mini"),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return ProviderOpenAI
}

// Complete sends a system and a user message and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	oreq := openAIRequest{
		Model:       c.config.Model,
		MaxTokens:   c.maxTokens(req),
		Temperature: c.temperature(req),
	}
	if req.SystemPrompt != "" {
		oreq.Messages = append(oreq.Messages, openAIMessage{Role: "system", Content: req.SystemPrompt})
	}
	oreq.Messages = append(oreq.Messages, openAIMessage{Role: "user", Content: req.UserPrompt})

	body, err := json.Marshal(oreq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(ProviderOpenAI, resp)
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return out.Choices[0].Message.Content, nil
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int           `json:"index"`
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}
