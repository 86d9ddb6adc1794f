// Package export assembles a project's backend records, cached analyses,
// and notes into a single JSON bundle.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"fieldnote/internal/localstore"
	"fieldnote/internal/logging"
	"fieldnote/internal/projects"
)

// bundleProject is the project header inside a bundle.
type bundleProject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type bundleInterview struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Transcript  string `json:"transcript"`
	Keywords    string `json:"keywords"`
	DateTime    string `json:"dateTime"`
	AudioFileID string `json:"audioFileId"`
}

// Bundle is the exported document. The analysis and notes sections carry
// the cached payloads verbatim; a section with no cached data is null.
type Bundle struct {
	Project    bundleProject     `json:"project"`
	Interviews []bundleInterview `json:"interviews"`
	Insights   json.RawMessage   `json:"insights"`
	Keywords   json.RawMessage   `json:"keywords"`
	Context    json.RawMessage   `json:"context"`
	Notes      json.RawMessage   `json:"notes"`
}

// Exporter builds and writes project bundles.
type Exporter struct {
	projects *projects.Service
	store    *localstore.Store
	logger   *slog.Logger
}

// New wires an exporter.
func New(projectSvc *projects.Service, store *localstore.Store, logger *slog.Logger) *Exporter {
	return &Exporter{
		projects: projectSvc,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "export"),
	}
}

// Build assembles the bundle for one project.
func (e *Exporter) Build(ctx context.Context, projectID string) (*Bundle, error) {
	project, err := e.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	interviews, err := e.projects.ListInterviews(ctx, projectID)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		Project:    bundleProject{ID: project.ID, Name: project.Name},
		Interviews: make([]bundleInterview, 0, len(interviews)),
	}
	for _, iv := range interviews {
		bundle.Interviews = append(bundle.Interviews, bundleInterview{
			ID:          iv.ID,
			Title:       iv.Title,
			Transcript:  iv.Transcript,
			Keywords:    iv.Keywords,
			DateTime:    iv.DateTime,
			AudioFileID: iv.AudioFileID,
		})
	}

	sections := []struct {
		key    string
		target *json.RawMessage
	}{
		{localstore.InsightsKey(projectID), &bundle.Insights},
		{localstore.KeywordsKey(projectID), &bundle.Keywords},
		{localstore.ContextKey(projectID), &bundle.Context},
		{localstore.NotesKey(projectID), &bundle.Notes},
	}
	for _, section := range sections {
		raw, found, err := e.store.Get(ctx, section.key)
		if err != nil {
			return nil, err
		}
		if found {
			*section.target = json.RawMessage(raw)
		} else {
			*section.target = json.RawMessage("null")
		}
	}

	return bundle, nil
}

// Write builds the bundle and writes it to path as indented JSON.
func (e *Exporter) Write(ctx context.Context, projectID, path string) (*Bundle, error) {
	bundle, err := e.Build(ctx, projectID)
	if err != nil {
		return nil, err
	}
	encoded, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("write bundle: %w", err)
	}
	e.logger.Info("project exported",
		logging.String(logging.FieldProjectID, projectID),
		logging.String("path", path),
		logging.Int("interview_count", len(bundle.Interviews)))
	return bundle, nil
}
