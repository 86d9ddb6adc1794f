package export_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fieldnote/internal/export"
	"fieldnote/internal/localstore"
	"fieldnote/internal/logging"
	"fieldnote/internal/projects"
	"fieldnote/internal/services/backend"
	"fieldnote/internal/testsupport"
)

type fixture struct {
	exporter *export.Exporter
	store    *localstore.Store
	fake     *testsupport.FakeBackend
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	fake := testsupport.NewFakeBackend()
	server := httptest.NewServer(fake.Handler())
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t, testsupport.WithBackendEndpoint(server.URL))
	client, err := backend.New(cfg)
	if err != nil {
		t.Fatalf("new backend client: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	service := projects.NewService(cfg, client, logging.NewNop())

	return fixture{
		exporter: export.New(service, store, logging.NewNop()),
		store:    store,
		fake:     fake,
	}
}

func seedProject(fx fixture) {
	fx.fake.SeedDocument("projects", "p1", map[string]string{"name": "Clinic Study"})
	fx.fake.SeedDocument("interviews", "iv1", map[string]string{
		"projectId":   "p1",
		"title":       "Session 1",
		"transcript":  "what was said",
		"keywords":    "",
		"dateTime":    "2026-08-30T10:00:00Z",
		"audioFileId": "f1",
	})
	// An interview from another project must not leak into the bundle.
	fx.fake.SeedDocument("interviews", "iv2", map[string]string{
		"projectId": "p2",
		"title":     "Other",
	})
}

func TestBuildBundlesProjectData(t *testing.T) {
	fx := newFixture(t)
	seedProject(fx)
	ctx := context.Background()

	themes := `{"themes":[{"theme":"Trust","subpoints":["a"]}],"lastAnalysis":"2026-08-30T11:00:00Z"}`
	if err := fx.store.Put(ctx, localstore.InsightsKey("p1"), []byte(themes)); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	bundle, err := fx.exporter.Build(ctx, "p1")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if bundle.Project.ID != "p1" || bundle.Project.Name != "Clinic Study" {
		t.Fatalf("unexpected project header %+v", bundle.Project)
	}
	if len(bundle.Interviews) != 1 || bundle.Interviews[0].Title != "Session 1" {
		t.Fatalf("unexpected interviews %+v", bundle.Interviews)
	}
	if string(bundle.Insights) != themes {
		t.Fatalf("insights not carried verbatim: %s", bundle.Insights)
	}
	for name, section := range map[string]json.RawMessage{
		"keywords": bundle.Keywords,
		"context":  bundle.Context,
		"notes":    bundle.Notes,
	} {
		if string(section) != "null" {
			t.Fatalf("%s should be null when nothing is cached, got %s", name, section)
		}
	}
}

func TestBuildUnknownProject(t *testing.T) {
	fx := newFixture(t)
	if _, err := fx.exporter.Build(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown project")
	}
}

func TestWriteProducesIndentedJSON(t *testing.T) {
	fx := newFixture(t)
	seedProject(fx)

	path := filepath.Join(t.TempDir(), "bundle.json")
	if _, err := fx.exporter.Write(context.Background(), "p1", path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}
	if !strings.HasPrefix(string(raw), "{\n  \"project\"") {
		t.Fatalf("expected two-space indentation, got %q", string(raw[:min(40, len(raw))]))
	}

	var decoded export.Bundle
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("bundle is not valid JSON: %v", err)
	}
	if decoded.Project.Name != "Clinic Study" {
		t.Fatalf("unexpected decoded bundle %+v", decoded)
	}
}
