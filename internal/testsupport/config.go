// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"fieldnote/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Backend = config.Backend{
		Endpoint:             "https://backend.test",
		Project:              "test-workspace",
		Database:             "test-db",
		ProjectsCollection:   "projects",
		InterviewsCollection: "interviews",
		Bucket:               "audio",
		RequestTimeout:       30,
	}
	cfg.Transcription.APIKey = "test"
	cfg.LLM.APIKey = "test"
	cfg.Search.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBackendEndpoint points the backend client at the provided URL,
// typically an httptest server.
func WithBackendEndpoint(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Backend.Endpoint = url
	}
}

// WithPollInterval overrides the transcription poll cadence in seconds.
func WithPollInterval(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcription.PollInterval = seconds
	}
}
