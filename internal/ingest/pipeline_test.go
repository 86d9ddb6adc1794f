package ingest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fieldnote/internal/ingest"
	"fieldnote/internal/logging"
	"fieldnote/internal/projects"
	"fieldnote/internal/services/backend"
	"fieldnote/internal/services/transcribe"
	"fieldnote/internal/testsupport"
)

type fixture struct {
	pipeline *ingest.Pipeline
	fake     *testsupport.FakeBackend
	service  *projects.Service
}

// transcribeScript controls the fake transcription provider per test.
type transcribeScript struct {
	finalStatus string
	text        string
	errMessage  string
}

func newFixture(t *testing.T, script transcribeScript) fixture {
	t.Helper()

	fake := testsupport.NewFakeBackend()
	backendServer := httptest.NewServer(fake.Handler())
	t.Cleanup(backendServer.Close)

	speechServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/upload":
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.test/a"})
		case r.Method == http.MethodPost && r.URL.Path == "/transcript":
			json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/transcript/"):
			json.NewEncoder(w).Encode(transcribe.Job{
				ID:     "job-1",
				Status: script.finalStatus,
				Text:   script.text,
				Error:  script.errMessage,
			})
		default:
			t.Fatalf("unexpected transcription request %s %s", r.Method, r.URL.Path)
		}
	}))
	t.Cleanup(speechServer.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithBackendEndpoint(backendServer.URL))
	cfg.Transcription.BaseURL = speechServer.URL

	client, err := backend.New(cfg)
	if err != nil {
		t.Fatalf("new backend client: %v", err)
	}
	transcriber, err := transcribe.New(cfg, transcribe.WithPollInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("new transcriber: %v", err)
	}
	service := projects.NewService(cfg, client, logging.NewNop())
	pipeline := ingest.New(client, transcriber, service, nil, logging.NewNop())

	return fixture{pipeline: pipeline, fake: fake, service: service}
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.mp3")
	if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestRunHappyPath(t *testing.T) {
	fx := newFixture(t, transcribeScript{finalStatus: transcribe.StatusCompleted, text: "what was said"})

	result, err := fx.pipeline.Run(context.Background(), ingest.Request{
		ProjectID: "p1",
		Title:     "Session 1",
		AudioPath: writeAudio(t),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TranscriptionErr != nil {
		t.Fatalf("unexpected transcription error: %v", result.TranscriptionErr)
	}

	iv := result.Interview
	if iv.ID == "" || iv.AudioFileID == "" {
		t.Fatalf("missing identifiers: %+v", iv)
	}
	if iv.Transcript != "what was said" {
		t.Fatalf("unexpected transcript %q", iv.Transcript)
	}
	if iv.Keywords != "" {
		t.Fatalf("legacy keywords field must be empty, got %q", iv.Keywords)
	}
	if _, err := time.Parse(time.RFC3339, iv.DateTime); err != nil {
		t.Fatalf("dateTime not RFC 3339: %q", iv.DateTime)
	}
	if !fx.fake.HasFile(iv.AudioFileID) {
		t.Fatal("audio not stored in bucket")
	}
	if fx.fake.DocumentCount("interviews") != 1 {
		t.Fatalf("expected 1 interview record, got %d", fx.fake.DocumentCount("interviews"))
	}
}

func TestRunValidatesBeforeAnyUpload(t *testing.T) {
	fx := newFixture(t, transcribeScript{finalStatus: transcribe.StatusCompleted})
	ctx := context.Background()

	cases := []ingest.Request{
		{ProjectID: "p1", Title: "  ", AudioPath: writeAudio(t)},
		{ProjectID: "", Title: "T", AudioPath: writeAudio(t)},
		{ProjectID: "p1", Title: "T", AudioPath: ""},
		{ProjectID: "p1", Title: "T", AudioPath: filepath.Join(t.TempDir(), "missing.mp3")},
	}
	for i, req := range cases {
		if _, err := fx.pipeline.Run(ctx, req); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if fx.fake.FileCount() != 0 {
		t.Fatal("validation failures must not upload audio")
	}
	if fx.fake.DocumentCount("interviews") != 0 {
		t.Fatal("validation failures must not create records")
	}
}

func TestRunAbortsWhenUploadFails(t *testing.T) {
	fx := newFixture(t, transcribeScript{finalStatus: transcribe.StatusCompleted})
	fx.fake.FailFileCreate = true

	_, err := fx.pipeline.Run(context.Background(), ingest.Request{
		ProjectID: "p1",
		Title:     "Session",
		AudioPath: writeAudio(t),
	})
	if err == nil || !strings.Contains(err.Error(), "upload audio") {
		t.Fatalf("expected upload error, got %v", err)
	}
	if fx.fake.DocumentCount("interviews") != 0 {
		t.Fatal("no interview record may exist without a stored audio file")
	}
}

func TestRunToleratesTranscriptionFailure(t *testing.T) {
	fx := newFixture(t, transcribeScript{finalStatus: transcribe.StatusError, errMessage: "unsupported codec"})

	result, err := fx.pipeline.Run(context.Background(), ingest.Request{
		ProjectID: "p1",
		Title:     "Session",
		AudioPath: writeAudio(t),
	})
	if err != nil {
		t.Fatalf("Run should tolerate transcription failure, got %v", err)
	}
	if result.TranscriptionErr == nil || !strings.Contains(result.TranscriptionErr.Error(), "unsupported codec") {
		t.Fatalf("expected captured transcription error, got %v", result.TranscriptionErr)
	}
	if result.Interview.Transcript != "" {
		t.Fatalf("transcript should be empty, got %q", result.Interview.Transcript)
	}
	if fx.fake.DocumentCount("interviews") != 1 {
		t.Fatal("record must still be created after transcription failure")
	}
}

func TestRunSurfacesRecordCreationFailure(t *testing.T) {
	fx := newFixture(t, transcribeScript{finalStatus: transcribe.StatusCompleted, text: "x"})
	fx.fake.FailDocumentCreate = true

	_, err := fx.pipeline.Run(context.Background(), ingest.Request{
		ProjectID: "p1",
		Title:     "Session",
		AudioPath: writeAudio(t),
	})
	if err == nil || !strings.Contains(err.Error(), "create interview record") {
		t.Fatalf("expected record creation error, got %v", err)
	}
	// The uploaded audio is not rolled back.
	if fx.fake.FileCount() != 1 {
		t.Fatalf("expected orphaned audio file to remain, got %d files", fx.fake.FileCount())
	}
}

func TestRunTwiceCreatesDuplicateRecords(t *testing.T) {
	fx := newFixture(t, transcribeScript{finalStatus: transcribe.StatusCompleted, text: "x"})
	ctx := context.Background()
	req := ingest.Request{ProjectID: "p1", Title: "Session", AudioPath: writeAudio(t)}

	first, err := fx.pipeline.Run(ctx, req)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := fx.pipeline.Run(ctx, req)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first.Interview.ID == second.Interview.ID {
		t.Fatal("expected distinct interview records")
	}
	if fx.fake.DocumentCount("interviews") != 2 {
		t.Fatalf("expected 2 records, got %d", fx.fake.DocumentCount("interviews"))
	}
}
