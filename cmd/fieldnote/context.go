package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"fieldnote/internal/analysis"
	"fieldnote/internal/config"
	"fieldnote/internal/export"
	"fieldnote/internal/ingest"
	"fieldnote/internal/localstore"
	"fieldnote/internal/logging"
	"fieldnote/internal/notes"
	"fieldnote/internal/notifications"
	"fieldnote/internal/projects"
	"fieldnote/internal/services/backend"
	"fieldnote/internal/services/llm"
	"fieldnote/internal/services/search"
	"fieldnote/internal/services/transcribe"
)

// commandContext lazily builds the pieces a command needs. Config, logger,
// and store are shared; clients are cheap and built per call.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	storeOnce sync.Once
	store     *localstore.Store
	storeErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewForPaths(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ensureStore() (*localstore.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		c.store, c.storeErr = localstore.Open(cfg)
	})
	return c.store, c.storeErr
}

func (c *commandContext) close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// backendClient builds a client with the persisted session attached when
// one exists. Commands that need authentication fail on the first request
// the backend rejects.
func (c *commandContext) backendClient() (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireBackend(); err != nil {
		return nil, err
	}
	client, err := backend.New(cfg)
	if err != nil {
		return nil, err
	}
	if session, found, err := backend.LoadSession(cfg.SessionPath()); err != nil {
		return nil, err
	} else if found {
		client.SetSession(session.Secret)
	}
	return client, nil
}

func (c *commandContext) projectService() (*projects.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := c.backendClient()
	if err != nil {
		return nil, err
	}
	return projects.NewService(cfg, client, logger), nil
}

func (c *commandContext) ingestPipeline() (*ingest.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireTranscriptionKey(); err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := c.backendClient()
	if err != nil {
		return nil, err
	}
	transcriber, err := transcribe.New(cfg)
	if err != nil {
		return nil, err
	}
	service := projects.NewService(cfg, client, logger)
	return ingest.New(client, transcriber, service, notifications.NewService(cfg), logger), nil
}

func (c *commandContext) analyzer() (*analysis.Analyzer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireLLMKey(); err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	service, err := c.projectService()
	if err != nil {
		return nil, err
	}
	llmClient, err := llm.New(cfg)
	if err != nil {
		return nil, err
	}
	var searchClient *search.Client
	if cfg.RequireSearchKey() == nil {
		searchClient, err = search.New(cfg)
		if err != nil {
			return nil, err
		}
	}
	return analysis.New(llmClient, searchClient, store, service, notifications.NewService(cfg), logger), nil
}

func (c *commandContext) notesService() (*notes.Service, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	return notes.NewService(store, logger), nil
}

func (c *commandContext) exporter() (*export.Exporter, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	service, err := c.projectService()
	if err != nil {
		return nil, err
	}
	return export.New(service, store, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
