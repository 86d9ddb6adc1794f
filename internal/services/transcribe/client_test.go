package transcribe_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fieldnote/internal/services/transcribe"
	"fieldnote/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...transcribe.Option) *transcribe.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.Transcription.BaseURL = server.URL
	client, err := transcribe.New(cfg, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestTranscribeHappyPath(t *testing.T) {
	var polls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			if r.Header.Get("authorization") != "test" {
				t.Fatalf("missing authorization header")
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "audio-bytes" {
				t.Fatalf("unexpected upload body %q", body)
			}
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.test/audio/1"})
		case r.Method == http.MethodPost && r.URL.Path == "/transcript":
			var payload map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode submit: %v", err)
			}
			if payload["audio_url"] != "https://cdn.test/audio/1" {
				t.Fatalf("unexpected audio_url %q", payload["audio_url"])
			}
			if payload["speech_model"] != "universal" {
				t.Fatalf("unexpected speech_model %q", payload["speech_model"])
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/transcript/job-1":
			job := transcribe.Job{ID: "job-1", Status: transcribe.StatusProcessing}
			if polls.Add(1) >= 3 {
				job.Status = transcribe.StatusCompleted
				job.Text = "hello from the field"
			}
			json.NewEncoder(w).Encode(job)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}), transcribe.WithPollInterval(time.Millisecond))

	text, err := client.Transcribe(context.Background(), strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello from the field" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if polls.Load() < 3 {
		t.Fatalf("expected at least 3 polls, got %d", polls.Load())
	}
}

func TestWaitSurfacesJobError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcribe.Job{ID: "job-2", Status: transcribe.StatusError, Error: "unsupported codec"})
	}), transcribe.WithPollInterval(time.Millisecond))

	_, err := client.WaitForTranscript(context.Background(), "job-2")
	if err == nil || !strings.Contains(err.Error(), "unsupported codec") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestWaitTimesOut(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcribe.Job{ID: "job-3", Status: transcribe.StatusProcessing})
	}), transcribe.WithPollInterval(time.Millisecond), transcribe.WithPollTimeout(10*time.Millisecond))

	_, err := client.WaitForTranscript(context.Background(), "job-3")
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestWaitHonorsContextCancel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcribe.Job{ID: "job-4", Status: transcribe.StatusQueued})
	}), transcribe.WithPollInterval(50*time.Millisecond), transcribe.WithPollTimeout(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	_, err := client.WaitForTranscript(ctx, "job-4")
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestSubmitRejectsEmptyURL(t *testing.T) {
	client := newTestClient(t, http.NotFoundHandler())
	if _, err := client.Submit(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty audio url")
	}
}

func TestUploadSurfacesHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))

	_, err := client.Upload(context.Background(), strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "http 401") {
		t.Fatalf("expected http error, got %v", err)
	}
}
