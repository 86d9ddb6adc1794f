// Package ingest runs the interview ingestion pipeline: validate the local
// audio file, upload it to workspace storage, transcribe it through the
// hosted provider, and create the interview record.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldnote/internal/logging"
	"fieldnote/internal/notifications"
	"fieldnote/internal/projects"
	"fieldnote/internal/services/backend"
	"fieldnote/internal/services/transcribe"
)

// Request names the inputs for one ingestion run.
type Request struct {
	ProjectID string
	Title     string
	AudioPath string
}

// Result reports the created interview. TranscriptionErr is set when the
// record was created without a transcript because transcription failed; the
// run itself still succeeded.
type Result struct {
	Interview        projects.Interview
	TranscriptionErr error
}

// Pipeline orchestrates one interview submission end to end.
type Pipeline struct {
	store       *backend.Client
	transcriber *transcribe.Client
	projects    *projects.Service
	notifier    notifications.Service
	logger      *slog.Logger
}

// New wires an ingestion pipeline from its collaborators.
func New(store *backend.Client, transcriber *transcribe.Client, projectSvc *projects.Service, notifier notifications.Service, logger *slog.Logger) *Pipeline {
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	return &Pipeline{
		store:       store,
		transcriber: transcriber,
		projects:    projectSvc,
		notifier:    notifier,
		logger:      logging.NewComponentLogger(logger, "ingest"),
	}
}

// Run executes the pipeline. The uploaded audio is never rolled back: an
// interview record is only written after the audio upload succeeds, and a
// transcription failure degrades to an empty transcript rather than aborting.
// Re-running the same request creates a second, independent record.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	var result Result

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return result, errors.New("interview title required")
	}
	if strings.TrimSpace(req.ProjectID) == "" {
		return result, errors.New("project id required")
	}
	if strings.TrimSpace(req.AudioPath) == "" {
		return result, errors.New("audio file required")
	}

	runID := uuid.NewString()
	logger := p.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldProjectID, req.ProjectID))

	audio, err := os.Open(req.AudioPath)
	if err != nil {
		return result, fmt.Errorf("open audio file: %w", err)
	}

	fileID := uuid.NewString()
	logger.Info("uploading audio",
		logging.String("audio_path", req.AudioPath),
		logging.String("audio_file_id", fileID))
	stored, err := p.store.CreateFile(ctx, fileID, filepath.Base(req.AudioPath), audio)
	closeErr := audio.Close()
	if err != nil {
		p.notifyError(ctx, err, "audio upload")
		return result, fmt.Errorf("upload audio: %w", err)
	}
	if closeErr != nil {
		logger.Warn("close audio file", logging.Error(closeErr))
	}

	transcript, transcriptionErr := p.transcribeFile(ctx, req.AudioPath)
	if transcriptionErr != nil {
		logger.Warn("transcription failed, continuing with empty transcript",
			logging.String(logging.FieldEventType, "transcription_failed"),
			logging.Error(transcriptionErr),
			logging.String(logging.FieldErrorHint, "re-run ingestion to retry transcription"))
	}

	interview := projects.Interview{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Transcript:  transcript,
		Keywords:    "",
		DateTime:    time.Now().UTC().Format(time.RFC3339),
		AudioFileID: stored.ID,
	}
	created, err := p.projects.CreateInterview(ctx, interview)
	if err != nil {
		// The uploaded audio stays behind; there is no rollback.
		p.notifyError(ctx, err, "interview record creation")
		return result, fmt.Errorf("create interview record: %w", err)
	}

	logger.Info("interview ingested",
		logging.String(logging.FieldInterviewID, created.ID),
		logging.Bool("has_transcript", transcript != ""))

	if transcriptionErr != nil {
		if notifyErr := p.notifier.NotifyIngestDegraded(ctx, created.Title, transcriptionErr.Error()); notifyErr != nil {
			logger.Warn("send degraded notification", logging.Error(notifyErr))
		}
	} else {
		if notifyErr := p.notifier.NotifyIngestCompleted(ctx, created.ProjectID, created.Title); notifyErr != nil {
			logger.Warn("send completion notification", logging.Error(notifyErr))
		}
	}

	result.Interview = created
	result.TranscriptionErr = transcriptionErr
	return result, nil
}

func (p *Pipeline) transcribeFile(ctx context.Context, path string) (string, error) {
	audio, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer audio.Close()
	return p.transcriber.Transcribe(ctx, audio)
}

func (p *Pipeline) notifyError(ctx context.Context, err error, label string) {
	if notifyErr := p.notifier.NotifyError(ctx, err, label); notifyErr != nil {
		p.logger.Warn("send error notification", logging.Error(notifyErr))
	}
}
