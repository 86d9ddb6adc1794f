// Package backend wraps the hosted workspace API that stores fieldnote
// accounts, project and interview documents, and uploaded audio files.
package backend

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

const defaultHTTPTimeout = 30 * time.Second

// Client issues authenticated requests against the workspace backend.
type Client struct {
	endpoint   string
	project    string
	database   string
	bucket     string
	session    string
	httpClient *http.Client
}

// Option customizes the backend client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSession attaches a session secret to every request.
func WithSession(secret string) Option {
	return func(c *Client) {
		c.session = strings.TrimSpace(secret)
	}
}

// New constructs a backend client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.RequireBackend(); err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Backend.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := &Client{
		endpoint:   strings.TrimRight(cfg.Backend.Endpoint, "/"),
		project:    cfg.Backend.Project,
		database:   cfg.Backend.Database,
		bucket:     cfg.Backend.Bucket,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SetSession replaces the session secret used for subsequent requests.
func (c *Client) SetSession(secret string) {
	c.session = strings.TrimSpace(secret)
}

type apiError struct {
	Message string `json:"message"`
}

// do issues a JSON request and decodes a 2xx response into target when non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend %s: encode request: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	endpoint, err := url.JoinPath(c.endpoint, path)
	if err != nil {
		return fmt.Errorf("backend %s: build url: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("backend %s: request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend %s: read body: %w", op, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("backend %s: %w", op, ErrNotFound)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("backend %s: %s", op, errorDetail(resp.StatusCode, raw))
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("backend %s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Workspace-Project", c.project)
	if c.session != "" {
		req.Header.Set("X-Workspace-Session", c.session)
	}
}

func errorDetail(status int, raw []byte) string {
	var decoded apiError
	if err := json.Unmarshal(raw, &decoded); err == nil && strings.TrimSpace(decoded.Message) != "" {
		return strings.TrimSpace(decoded.Message)
	}
	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return fmt.Sprintf("http %d", status)
	}
	return fmt.Sprintf("http %d: %s", status, detail)
}

// ErrNotFound is returned by helpers that translate 404 responses.
var ErrNotFound = errors.New("not found")
