// Package llm issues chat-completion requests against an OpenAI-compatible
// inference endpoint and decodes the loosely formatted JSON payloads models
// return.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"fieldnote/internal/config"
)

const analysisTemperature = 0.6

// Client wraps the chat-completion API.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New constructs an LLM client from configuration.
func New(cfg *config.Config) (*Client, error) {
	if err := cfg.RequireLLMKey(); err != nil {
		return nil, err
	}

	apiConfig := openai.DefaultConfig(cfg.LLM.APIKey)
	if cfg.LLM.BaseURL != "" {
		apiConfig.BaseURL = cfg.LLM.BaseURL
	}

	timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiConfig),
		model:   cfg.LLM.Model,
		timeout: timeout,
	}, nil
}

// Complete sends a single-turn prompt and returns the raw completion text.
// There is no automatic retry; callers re-run on failure.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("llm complete: prompt required")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: analysisTemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm complete: empty choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("llm complete: empty content")
	}
	return content, nil
}
