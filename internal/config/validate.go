package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := ensurePositiveMap(map[string]int{
		"backend.request_timeout":       c.Backend.RequestTimeout,
		"transcription.poll_interval":   c.Transcription.PollInterval,
		"transcription.poll_timeout":    c.Transcription.PollTimeout,
		"llm.timeout_seconds":           c.LLM.TimeoutSeconds,
		"search.timeout_seconds":        c.Search.TimeoutSeconds,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	}); err != nil {
		return err
	}
	if c.Transcription.PollTimeout < c.Transcription.PollInterval {
		return errors.New("transcription.poll_timeout must be at least transcription.poll_interval")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// RequireBackend reports an error unless the hosted backend connection is
// fully configured. Commands that talk to the backend call this lazily so
// local-only commands work without it.
func (c *Config) RequireBackend() error {
	missing := ""
	switch {
	case c.Backend.Endpoint == "":
		missing = "backend.endpoint"
	case c.Backend.Project == "":
		missing = "backend.project"
	case c.Backend.Database == "":
		missing = "backend.database"
	case c.Backend.ProjectsCollection == "":
		missing = "backend.projects_collection"
	case c.Backend.InterviewsCollection == "":
		missing = "backend.interviews_collection"
	case c.Backend.Bucket == "":
		missing = "backend.bucket"
	}
	if missing != "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/fieldnote/config.toml"
		}
		return fmt.Errorf("%s is required. Edit %s (create with 'fieldnote config init')", missing, defaultPath)
	}
	return nil
}

// RequireTranscriptionKey reports an error when no transcription API key is configured.
func (c *Config) RequireTranscriptionKey() error {
	if c.Transcription.APIKey == "" {
		return errors.New("transcription.api_key is required. Set FIELDNOTE_TRANSCRIPTION_API_KEY or edit the config file")
	}
	return nil
}

// RequireLLMKey reports an error when no chat-completion API key is configured.
func (c *Config) RequireLLMKey() error {
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key is required. Set FIELDNOTE_LLM_API_KEY or edit the config file")
	}
	return nil
}

// RequireSearchKey reports an error when no web-search API key is configured.
func (c *Config) RequireSearchKey() error {
	if c.Search.APIKey == "" {
		return errors.New("search.api_key is required. Set FIELDNOTE_SEARCH_API_KEY or edit the config file")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
