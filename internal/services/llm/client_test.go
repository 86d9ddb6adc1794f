package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fieldnote/internal/services/llm"
	"fieldnote/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler) *llm.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.LLM.BaseURL = server.URL + "/v1"
	client, err := llm.New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestCompleteSendsModelAndPrompt(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Model != "deepseek-r1-distill-llama-70b" {
			t.Fatalf("unexpected model %q", payload.Model)
		}
		if payload.Temperature < 0.59 || payload.Temperature > 0.61 {
			t.Fatalf("unexpected temperature %v", payload.Temperature)
		}
		if payload.MaxTokens != 1024 {
			t.Fatalf("unexpected max tokens %d", payload.MaxTokens)
		}
		if len(payload.Messages) != 1 || payload.Messages[0].Role != "user" {
			t.Fatalf("unexpected messages %+v", payload.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "[]"}},
			},
		})
	}))

	content, err := client.Complete(context.Background(), "analyze this", 1024)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if content != "[]" {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())
	if _, err := client.Complete(context.Background(), "   ", 100); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))

	_, err := client.Complete(context.Background(), "analyze", 100)
	if err == nil || !strings.Contains(err.Error(), "llm complete") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))

	if _, err := client.Complete(context.Background(), "analyze", 100); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
