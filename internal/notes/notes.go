// Package notes stores per-project research notes with a linear revision
// history and a single-step undo.
package notes

import (
	"context"
	"log/slog"
	"time"

	"fieldnote/internal/localstore"
	"fieldnote/internal/logging"
)

// Revision is one saved state of a project's notes.
type Revision struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Notes is the stored payload: the current content plus every saved
// revision, newest last. The current state is always history's last entry.
type Notes struct {
	Content   string     `json:"content"`
	Timestamp string     `json:"timestamp"`
	History   []Revision `json:"history"`
}

// Service reads and writes notes in the local store.
type Service struct {
	store  *localstore.Store
	logger *slog.Logger
}

// NewService wires a notes service.
func NewService(store *localstore.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logging.NewComponentLogger(logger, "notes"),
	}
}

// Load returns the project's notes, reporting whether any exist.
func (s *Service) Load(ctx context.Context, projectID string) (Notes, bool, error) {
	var notes Notes
	found, err := s.store.GetJSON(ctx, localstore.NotesKey(projectID), &notes)
	return notes, found, err
}

// Save records content as the newest revision and makes it current.
func (s *Service) Save(ctx context.Context, projectID, content string) (Notes, error) {
	notes, _, err := s.Load(ctx, projectID)
	if err != nil {
		return Notes{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	notes.Content = content
	notes.Timestamp = now
	notes.History = append(notes.History, Revision{Content: content, Timestamp: now})

	if err := s.store.PutJSON(ctx, localstore.NotesKey(projectID), notes); err != nil {
		return Notes{}, err
	}
	s.logger.Info("notes saved",
		logging.String(logging.FieldProjectID, projectID),
		logging.Int("revision_count", len(notes.History)))
	return notes, nil
}

// Undo discards the newest revision and restores the one before it. With
// fewer than two revisions there is nothing to undo and the notes are
// returned unchanged.
func (s *Service) Undo(ctx context.Context, projectID string) (Notes, bool, error) {
	notes, found, err := s.Load(ctx, projectID)
	if err != nil {
		return Notes{}, false, err
	}
	if !found || len(notes.History) < 2 {
		return notes, false, nil
	}

	previous := notes.History[len(notes.History)-2]
	notes.History = notes.History[:len(notes.History)-1]
	notes.Content = previous.Content
	notes.Timestamp = previous.Timestamp

	if err := s.store.PutJSON(ctx, localstore.NotesKey(projectID), notes); err != nil {
		return Notes{}, false, err
	}
	s.logger.Info("notes reverted",
		logging.String(logging.FieldProjectID, projectID),
		logging.Int("revision_count", len(notes.History)))
	return notes, true, nil
}

// Delete removes the project's notes and their history.
func (s *Service) Delete(ctx context.Context, projectID string) error {
	return s.store.Delete(ctx, localstore.NotesKey(projectID))
}
