package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Transcription.PollInterval != 3 {
		t.Fatalf("expected default poll interval 3, got %d", cfg.Transcription.PollInterval)
	}
	if cfg.LLM.Model != "deepseek-r1-distill-llama-70b" {
		t.Fatalf("unexpected default model %q", cfg.LLM.Model)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Transcription.BaseURL != defaultTranscriptionBaseURL {
		t.Fatalf("unexpected base url %q", cfg.Transcription.BaseURL)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := strings.Join([]string{
		"[backend]",
		`endpoint = "https://backend.example.com/v1/"`,
		`project = "ws1"`,
		"[transcription]",
		`poll_interval = 5`,
		`poll_timeout = 60`,
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Backend.Endpoint != "https://backend.example.com/v1" {
		t.Fatalf("endpoint not trimmed: %q", cfg.Backend.Endpoint)
	}
	if cfg.Transcription.PollInterval != 5 {
		t.Fatalf("poll interval = %d", cfg.Transcription.PollInterval)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not lowered: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"bad format":         "[logging]\nformat = \"xml\"\n",
		"zero poll interval": "[transcription]\npoll_interval = 0\n",
		"timeout below poll": "[transcription]\npoll_interval = 10\npoll_timeout = 5\n",
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("%s: write config: %v", name, err)
		}
		if _, _, _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestEnvOverridesAPIKeys(t *testing.T) {
	t.Setenv("FIELDNOTE_TRANSCRIPTION_API_KEY", "env-key")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Transcription.APIKey != "env-key" {
		t.Fatalf("env override not applied: %q", cfg.Transcription.APIKey)
	}
}

func TestRequireBackendNamesMissingField(t *testing.T) {
	cfg := Default()
	err := cfg.RequireBackend()
	if err == nil {
		t.Fatal("expected error for unconfigured backend")
	}
	if !strings.Contains(err.Error(), "backend.endpoint") {
		t.Fatalf("expected backend.endpoint in error, got %v", err)
	}

	cfg.Backend = Backend{
		Endpoint:             "https://backend.example.com",
		Project:              "ws",
		Database:             "db",
		ProjectsCollection:   "projects",
		InterviewsCollection: "interviews",
		Bucket:               "audio",
		RequestTimeout:       30,
	}
	if err := cfg.RequireBackend(); err != nil {
		t.Fatalf("RequireBackend: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := ExpandPath("~/fieldnote")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "fieldnote") {
		t.Fatalf("ExpandPath = %q", got)
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[transcription]") {
		t.Fatal("sample missing transcription section")
	}
}
