// Package search wraps the hosted web-search provider used to pull short
// external context snippets for analysis themes.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fieldnote/internal/config"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	snippetLimit       = 400
)

// Client talks to the search API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the search client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New constructs a search client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.RequireSearchKey(); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Search.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := &Client{
		apiKey:     cfg.Search.APIKey,
		baseURL:    strings.TrimRight(cfg.Search.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Content string `json:"content"`
	} `json:"results"`
}

// Lookup runs a basic-depth search and returns a short snippet: the provider's
// synthesized answer when present, otherwise the first result's content
// truncated to 400 characters. An empty string means nothing was found.
func (c *Client) Lookup(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("search lookup: query required")
	}

	payload := searchRequest{
		APIKey:        c.apiKey,
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("search lookup: encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.baseURL, "/search")
	if err != nil {
		return "", fmt.Errorf("search lookup: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("search lookup: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search lookup: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("search lookup: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("search lookup: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded searchResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("search lookup: decode response: %w", err)
	}

	if answer := strings.TrimSpace(decoded.Answer); answer != "" {
		return answer, nil
	}
	if len(decoded.Results) > 0 {
		if content := strings.TrimSpace(decoded.Results[0].Content); content != "" {
			return truncateSnippet(content), nil
		}
	}
	return "", nil
}

func truncateSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLimit {
		return content
	}
	return string(runes[:snippetLimit]) + "…"
}
