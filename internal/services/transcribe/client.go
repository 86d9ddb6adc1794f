// Package transcribe wraps the hosted speech-to-text provider: audio upload,
// job submission, and status polling until a transcript is ready.
package transcribe

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

const defaultHTTPTimeout = 60 * time.Second

// Job statuses reported by the provider.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Client talks to the transcription API.
type Client struct {
	apiKey       string
	baseURL      string
	speechModel  string
	pollInterval time.Duration
	pollTimeout  time.Duration
	httpClient   *http.Client
}

// Option customizes the transcription client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPollInterval overrides the status poll cadence (useful for tests).
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithPollTimeout overrides the overall cap on waiting for a transcript.
func WithPollTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.pollTimeout = timeout
		}
	}
}

// New constructs a transcription client from configuration.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.RequireTranscriptionKey(); err != nil {
		return nil, err
	}

	client := &Client{
		apiKey:       cfg.Transcription.APIKey,
		baseURL:      strings.TrimRight(cfg.Transcription.BaseURL, "/"),
		speechModel:  cfg.Transcription.SpeechModel,
		pollInterval: time.Duration(cfg.Transcription.PollInterval) * time.Second,
		pollTimeout:  time.Duration(cfg.Transcription.PollTimeout) * time.Second,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Upload pushes raw audio bytes to the provider and returns the provider-side
// audio URL to submit for transcription.
func (c *Client) Upload(ctx context.Context, content io.Reader) (string, error) {
	endpoint, err := url.JoinPath(c.baseURL, "/upload")
	if err != nil {
		return "", fmt.Errorf("transcribe upload: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, content)
	if err != nil {
		return "", fmt.Errorf("transcribe upload: request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var decoded struct {
		UploadURL string `json:"upload_url"`
	}
	if err := c.send(req, "upload", &decoded); err != nil {
		return "", err
	}
	if decoded.UploadURL == "" {
		return "", errors.New("transcribe upload: response missing upload_url")
	}
	return decoded.UploadURL, nil
}

// Submit starts a transcription job for the uploaded audio and returns the job id.
func (c *Client) Submit(ctx context.Context, audioURL string) (string, error) {
	audioURL = strings.TrimSpace(audioURL)
	if audioURL == "" {
		return "", errors.New("transcribe submit: audio url required")
	}

	payload := map[string]string{
		"audio_url":    audioURL,
		"speech_model": c.speechModel,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("transcribe submit: encode request: %w", err)
	}
	endpoint, err := url.JoinPath(c.baseURL, "/transcript")
	if err != nil {
		return "", fmt.Errorf("transcribe submit: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("transcribe submit: request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var decoded struct {
		ID string `json:"id"`
	}
	if err := c.send(req, "submit", &decoded); err != nil {
		return "", err
	}
	if decoded.ID == "" {
		return "", errors.New("transcribe submit: response missing job id")
	}
	return decoded.ID, nil
}

// Job is a transcription job status snapshot.
type Job struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Poll fetches the current status of a transcription job.
func (c *Client) Poll(ctx context.Context, id string) (Job, error) {
	var job Job
	endpoint, err := url.JoinPath(c.baseURL, "/transcript", id)
	if err != nil {
		return job, fmt.Errorf("transcribe poll: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return job, fmt.Errorf("transcribe poll: request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	if err := c.send(req, "poll", &job); err != nil {
		return job, err
	}
	return job, nil
}

// WaitForTranscript polls the job until completion. It honors ctx cancellation
// and gives up after the configured poll timeout.
func (c *Client) WaitForTranscript(ctx context.Context, id string) (string, error) {
	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		job, err := c.Poll(ctx, id)
		if err != nil {
			return "", err
		}
		switch job.Status {
		case StatusCompleted:
			return job.Text, nil
		case StatusError:
			detail := strings.TrimSpace(job.Error)
			if detail == "" {
				detail = "provider reported failure"
			}
			return "", fmt.Errorf("transcription failed: %s", detail)
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("transcription timed out after %s (job %s)", c.pollTimeout, id)
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("transcription wait: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Transcribe runs the full upload, submit, wait sequence for one audio stream.
func (c *Client) Transcribe(ctx context.Context, content io.Reader) (string, error) {
	audioURL, err := c.Upload(ctx, content)
	if err != nil {
		return "", err
	}
	jobID, err := c.Submit(ctx, audioURL)
	if err != nil {
		return "", err
	}
	return c.WaitForTranscript(ctx, jobID)
}

func (c *Client) send(req *http.Request, op string, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("transcribe %s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("transcribe %s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("transcribe %s: http %d: %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("transcribe %s: decode response: %w", op, err)
	}
	return nil
}
