package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fieldnote/internal/localstore"
	"fieldnote/internal/logging"
	"fieldnote/internal/notifications"
	"fieldnote/internal/projects"
	"fieldnote/internal/services/llm"
	"fieldnote/internal/services/search"
)

const (
	themesMaxTokens   = 1024
	keywordsMaxTokens = 2048
)

// Analyzer runs the project analyses and maintains their local caches.
// Cached values are replaced wholesale on refresh; a failed analysis leaves
// the previous cache untouched.
type Analyzer struct {
	llm      *llm.Client
	search   *search.Client
	store    *localstore.Store
	projects *projects.Service
	notifier notifications.Service
	logger   *slog.Logger
}

// New wires an analyzer from its collaborators.
func New(llmClient *llm.Client, searchClient *search.Client, store *localstore.Store, projectSvc *projects.Service, notifier notifications.Service, logger *slog.Logger) *Analyzer {
	if notifier == nil {
		notifier = notifications.NewNoop()
	}
	return &Analyzer{
		llm:      llmClient,
		search:   searchClient,
		store:    store,
		projects: projectSvc,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "analysis"),
	}
}

// Themes returns the project's theme analysis, serving the cache unless
// refresh is set or nothing is cached yet.
func (a *Analyzer) Themes(ctx context.Context, projectID string, refresh bool) (ThemesResult, error) {
	var result ThemesResult
	if !refresh {
		found, err := a.store.GetJSON(ctx, localstore.InsightsKey(projectID), &result)
		if err != nil {
			return result, err
		}
		if found {
			return result, nil
		}
	}

	corpus, err := a.transcriptCorpus(ctx, projectID)
	if err != nil {
		return result, err
	}

	content, err := a.llm.Complete(ctx, themesPrompt(corpus), themesMaxTokens)
	if err != nil {
		return result, err
	}

	var themes []Theme
	if err := llm.DecodeAnalysisJSON(content, &themes); err != nil {
		return result, fmt.Errorf("theme analysis failed: %w", err)
	}

	result = ThemesResult{Themes: themes, LastAnalysis: time.Now().UTC().Format(time.RFC3339)}
	if err := a.store.PutJSON(ctx, localstore.InsightsKey(projectID), result); err != nil {
		return result, err
	}

	a.logger.Info("theme analysis complete",
		logging.String(logging.FieldProjectID, projectID),
		logging.Int("theme_count", len(themes)))
	if err := a.notifier.NotifyAnalysisCompleted(ctx, projectID, "Theme"); err != nil {
		a.logger.Warn("send analysis notification", logging.Error(err))
	}
	return result, nil
}

// Keywords returns the project's keyword analysis, serving the cache unless
// refresh is set or nothing is cached yet.
func (a *Analyzer) Keywords(ctx context.Context, projectID string, refresh bool) (KeywordsResult, error) {
	var result KeywordsResult
	if !refresh {
		found, err := a.store.GetJSON(ctx, localstore.KeywordsKey(projectID), &result)
		if err != nil {
			return result, err
		}
		if found {
			return result, nil
		}
	}

	corpus, err := a.transcriptCorpus(ctx, projectID)
	if err != nil {
		return result, err
	}

	content, err := a.llm.Complete(ctx, keywordsPrompt(corpus), keywordsMaxTokens)
	if err != nil {
		return result, err
	}

	var categories []KeywordCategory
	if err := llm.DecodeAnalysisJSON(content, &categories); err != nil {
		return result, fmt.Errorf("keyword analysis failed: %w", err)
	}

	result = KeywordsResult{Keywords: categories, LastAnalysis: time.Now().UTC().Format(time.RFC3339)}
	if err := a.store.PutJSON(ctx, localstore.KeywordsKey(projectID), result); err != nil {
		return result, err
	}

	a.logger.Info("keyword analysis complete",
		logging.String(logging.FieldProjectID, projectID),
		logging.Int("category_count", len(categories)))
	if err := a.notifier.NotifyAnalysisCompleted(ctx, projectID, "Keyword"); err != nil {
		a.logger.Warn("send analysis notification", logging.Error(err))
	}
	return result, nil
}

// Context returns external context snippets for the project's themes. It
// requires a cached theme analysis. A request failure for one theme records
// a placeholder for that theme without failing the batch.
func (a *Analyzer) Context(ctx context.Context, projectID string, refresh bool) (ContextResult, error) {
	var result ContextResult
	if !refresh {
		found, err := a.store.GetJSON(ctx, localstore.ContextKey(projectID), &result)
		if err != nil {
			return result, err
		}
		if found {
			return result, nil
		}
	}

	if a.search == nil {
		return result, errors.New("search provider not configured")
	}

	var themes ThemesResult
	found, err := a.store.GetJSON(ctx, localstore.InsightsKey(projectID), &themes)
	if err != nil {
		return result, err
	}
	if !found || len(themes.Themes) == 0 {
		return result, errors.New("no themes available: run the theme analysis first")
	}

	data := make([]ThemeContext, 0, len(themes.Themes))
	for _, theme := range themes.Themes {
		snippet, err := a.search.Lookup(ctx, contextQuery(theme.Theme))
		switch {
		case err != nil:
			a.logger.Warn("context lookup failed",
				logging.String(logging.FieldProjectID, projectID),
				logging.String("theme", theme.Theme),
				logging.Error(err))
			snippet = contextFetchError
		case snippet == "":
			snippet = contextNotFound
		}
		data = append(data, ThemeContext{Theme: theme.Theme, Context: snippet})
	}

	result = ContextResult{Data: data, LastFetch: time.Now().UTC().Format(time.RFC3339)}
	if err := a.store.PutJSON(ctx, localstore.ContextKey(projectID), result); err != nil {
		return result, err
	}

	a.logger.Info("context fetch complete",
		logging.String(logging.FieldProjectID, projectID),
		logging.Int("theme_count", len(data)))
	return result, nil
}

func (a *Analyzer) transcriptCorpus(ctx context.Context, projectID string) (string, error) {
	interviews, err := a.projects.ListInterviews(ctx, projectID)
	if err != nil {
		return "", err
	}
	corpus := joinTranscripts(interviews)
	if corpus == "" {
		return "", errors.New("no transcripts to analyze: ingest interviews first")
	}
	return corpus, nil
}
