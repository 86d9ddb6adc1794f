// Package notifications sends optional ntfy push notifications for
// long-running fieldnote operations.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fieldnote/internal/config"
)

const userAgent = "Fieldnote/0.1.0"

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyIngestCompleted(ctx context.Context, projectName, title string) error
	NotifyIngestDegraded(ctx context.Context, title, reason string) error
	NotifyAnalysisCompleted(ctx context.Context, projectName, kind string) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		ingest:   cfg.Notifications.Ingest,
		analysis: cfg.Notifications.Analysis,
		errors:   cfg.Notifications.Errors,
	}
}

// NewNoop returns a Service that discards all notifications.
func NewNoop() Service {
	return noopService{}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	ingest   bool
	analysis bool
	errors   bool
}

func (n *ntfyService) NotifyIngestCompleted(ctx context.Context, projectName, title string) error {
	if !n.ingest {
		return nil
	}
	data := payload{
		title:   "Fieldnote - Interview Ready",
		message: fmt.Sprintf("Transcribed and stored: %s (%s)", strings.TrimSpace(title), strings.TrimSpace(projectName)),
		tags:    []string{"fieldnote", "ingest", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyIngestDegraded(ctx context.Context, title, reason string) error {
	if !n.ingest {
		return nil
	}
	data := payload{
		title:    "Fieldnote - Interview Saved Without Transcript",
		message:  fmt.Sprintf("Saved %s but transcription failed: %s", strings.TrimSpace(title), strings.TrimSpace(reason)),
		tags:     []string{"fieldnote", "ingest", "degraded"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAnalysisCompleted(ctx context.Context, projectName, kind string) error {
	if !n.analysis {
		return nil
	}
	data := payload{
		title:   "Fieldnote - Analysis Complete",
		message: fmt.Sprintf("%s analysis finished for %s", strings.TrimSpace(kind), strings.TrimSpace(projectName)),
		tags:    []string{"fieldnote", "analysis", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Fieldnote - Error",
		message:  builder.String(),
		tags:     []string{"fieldnote", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Fieldnote - Test",
		message:  "Notification system test",
		tags:     []string{"fieldnote", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyIngestCompleted(context.Context, string, string) error   { return nil }
func (noopService) NotifyIngestDegraded(context.Context, string, string) error    { return nil }
func (noopService) NotifyAnalysisCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error              { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
