package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fieldnote/internal/config"
	"fieldnote/internal/logging"
	"fieldnote/internal/services/backend"
)

// Service exposes project and interview operations over the backend client.
type Service struct {
	client        *backend.Client
	projectsCol   string
	interviewsCol string
	logger        *slog.Logger
}

// NewService wires a project service against the configured collections.
func NewService(cfg *config.Config, client *backend.Client, logger *slog.Logger) *Service {
	return &Service{
		client:        client,
		projectsCol:   cfg.Backend.ProjectsCollection,
		interviewsCol: cfg.Backend.InterviewsCollection,
		logger:        logging.NewComponentLogger(logger, "projects"),
	}
}

// CreateProject stores a new project with a generated id.
func (s *Service) CreateProject(ctx context.Context, name string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, errors.New("project name required")
	}

	id := uuid.NewString()
	doc, err := s.client.CreateDocument(ctx, s.projectsCol, id, projectFields{Name: name})
	if err != nil {
		return Project{}, err
	}

	project := Project{ID: doc.ID, Name: name, CreatedAt: doc.CreatedAt}
	s.logger.Info("project created",
		logging.String(logging.FieldProjectID, project.ID),
		logging.String("name", project.Name))
	return project, nil
}

// ListProjects returns every project in the workspace.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	docs, err := s.client.ListDocuments(ctx, s.projectsCol)
	if err != nil {
		return nil, err
	}

	result := make([]Project, 0, len(docs))
	for _, doc := range docs {
		var fields projectFields
		if err := doc.DecodeData(&fields); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", doc.ID, err)
		}
		result = append(result, Project{ID: doc.ID, Name: fields.Name, CreatedAt: doc.CreatedAt})
	}
	return result, nil
}

// GetProject fetches a single project by id.
func (s *Service) GetProject(ctx context.Context, id string) (Project, error) {
	doc, err := s.client.GetDocument(ctx, s.projectsCol, id)
	if err != nil {
		return Project{}, err
	}
	var fields projectFields
	if err := doc.DecodeData(&fields); err != nil {
		return Project{}, fmt.Errorf("decode project %s: %w", doc.ID, err)
	}
	return Project{ID: doc.ID, Name: fields.Name, CreatedAt: doc.CreatedAt}, nil
}

// RenameProject updates the project name. A blank or unchanged name is a no-op.
func (s *Service) RenameProject(ctx context.Context, id, name string) (Project, error) {
	name = strings.TrimSpace(name)
	current, err := s.GetProject(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if name == "" || name == current.Name {
		return current, nil
	}

	if _, err := s.client.UpdateDocument(ctx, s.projectsCol, id, projectFields{Name: name}); err != nil {
		return Project{}, err
	}
	current.Name = name
	s.logger.Info("project renamed",
		logging.String(logging.FieldProjectID, id),
		logging.String("name", name))
	return current, nil
}

// DeleteProject removes the project document. Interviews that reference the
// project are left in place; listing them simply stops once nothing asks for
// this project id.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	if err := s.client.DeleteDocument(ctx, s.projectsCol, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", logging.String(logging.FieldProjectID, id))
	return nil
}

// CreateInterview stores a new interview record with a generated id.
func (s *Service) CreateInterview(ctx context.Context, interview Interview) (Interview, error) {
	if strings.TrimSpace(interview.ProjectID) == "" {
		return Interview{}, errors.New("interview project id required")
	}
	if strings.TrimSpace(interview.Title) == "" {
		return Interview{}, errors.New("interview title required")
	}

	id := uuid.NewString()
	fields := interviewFields{
		ProjectID:   interview.ProjectID,
		Title:       interview.Title,
		Transcript:  interview.Transcript,
		Keywords:    interview.Keywords,
		DateTime:    interview.DateTime,
		AudioFileID: interview.AudioFileID,
	}
	doc, err := s.client.CreateDocument(ctx, s.interviewsCol, id, fields)
	if err != nil {
		return Interview{}, err
	}
	interview.ID = doc.ID
	return interview, nil
}

// ListInterviews returns the interviews belonging to a project. The backend
// collection is fetched whole and filtered here by project id.
func (s *Service) ListInterviews(ctx context.Context, projectID string) ([]Interview, error) {
	docs, err := s.client.ListDocuments(ctx, s.interviewsCol)
	if err != nil {
		return nil, err
	}

	result := make([]Interview, 0, len(docs))
	for _, doc := range docs {
		var fields interviewFields
		if err := doc.DecodeData(&fields); err != nil {
			return nil, fmt.Errorf("decode interview %s: %w", doc.ID, err)
		}
		if fields.ProjectID != projectID {
			continue
		}
		result = append(result, Interview{
			ID:          doc.ID,
			ProjectID:   fields.ProjectID,
			Title:       fields.Title,
			Transcript:  fields.Transcript,
			Keywords:    fields.Keywords,
			DateTime:    fields.DateTime,
			AudioFileID: fields.AudioFileID,
		})
	}
	return result, nil
}

// GetInterview fetches a single interview by id.
func (s *Service) GetInterview(ctx context.Context, id string) (Interview, error) {
	doc, err := s.client.GetDocument(ctx, s.interviewsCol, id)
	if err != nil {
		return Interview{}, err
	}
	var fields interviewFields
	if err := doc.DecodeData(&fields); err != nil {
		return Interview{}, fmt.Errorf("decode interview %s: %w", doc.ID, err)
	}
	return Interview{
		ID:          doc.ID,
		ProjectID:   fields.ProjectID,
		Title:       fields.Title,
		Transcript:  fields.Transcript,
		Keywords:    fields.Keywords,
		DateTime:    fields.DateTime,
		AudioFileID: fields.AudioFileID,
	}, nil
}

// DeleteInterviewAudio removes only the stored audio file. The interview
// record survives with its audioFileId still set; this mirrors the legacy
// removal flow and is deliberately distinct from DeleteInterview.
func (s *Service) DeleteInterviewAudio(ctx context.Context, interview Interview) error {
	if strings.TrimSpace(interview.AudioFileID) == "" {
		return errors.New("interview has no audio file")
	}
	if err := s.client.DeleteFile(ctx, interview.AudioFileID); err != nil {
		return err
	}
	s.logger.Info("interview audio deleted",
		logging.String(logging.FieldInterviewID, interview.ID),
		logging.String("audio_file_id", interview.AudioFileID))
	return nil
}

// DeleteInterview removes the stored audio file and then the interview record.
func (s *Service) DeleteInterview(ctx context.Context, interview Interview) error {
	if strings.TrimSpace(interview.AudioFileID) != "" {
		if err := s.client.DeleteFile(ctx, interview.AudioFileID); err != nil {
			return err
		}
	}
	if err := s.client.DeleteDocument(ctx, s.interviewsCol, interview.ID); err != nil {
		return err
	}
	s.logger.Info("interview deleted",
		logging.String(logging.FieldInterviewID, interview.ID),
		logging.String(logging.FieldProjectID, interview.ProjectID))
	return nil
}

// AudioURL returns the playback URL for the interview's stored audio, or an
// empty string when no file is referenced.
func (s *Service) AudioURL(interview Interview) string {
	if strings.TrimSpace(interview.AudioFileID) == "" {
		return ""
	}
	return s.client.FileViewURL(interview.AudioFileID)
}
