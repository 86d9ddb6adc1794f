package search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"fieldnote/internal/services/search"
	"fieldnote/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler) *search.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Search.BaseURL = server.URL
	client, err := search.New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestLookupPrefersAnswer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload["query"] != `What is "Trust in institutions"?` {
			t.Fatalf("unexpected query %v", payload["query"])
		}
		if payload["search_depth"] != "basic" || payload["include_answer"] != true {
			t.Fatalf("unexpected request shape %v", payload)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer":  "A synthesized answer.",
			"results": []map[string]string{{"content": "first result body"}},
		})
	}))

	snippet, err := client.Lookup(context.Background(), `What is "Trust in institutions"?`)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if snippet != "A synthesized answer." {
		t.Fatalf("unexpected snippet %q", snippet)
	}
}

func TestLookupFallsBackToFirstResultTruncated(t *testing.T) {
	long := strings.Repeat("x", 450)
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"answer":  "",
			"results": []map[string]string{{"content": long}},
		})
	}))

	snippet, err := client.Lookup(context.Background(), "query")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !strings.HasSuffix(snippet, "…") {
		t.Fatalf("expected truncation marker, got tail %q", snippet[len(snippet)-8:])
	}
	if utf8.RuneCountInString(snippet) != 401 {
		t.Fatalf("expected 400 runes plus marker, got %d", utf8.RuneCountInString(snippet))
	}
}

func TestLookupEmptyWhenNothingFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"answer": "", "results": []any{}})
	}))

	snippet, err := client.Lookup(context.Background(), "query")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if snippet != "" {
		t.Fatalf("expected empty snippet, got %q", snippet)
	}
}

func TestLookupSurfacesHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))

	_, err := client.Lookup(context.Background(), "query")
	if err == nil || !strings.Contains(err.Error(), "http 402") {
		t.Fatalf("expected http error, got %v", err)
	}
}
