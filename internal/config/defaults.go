package config

const (
	defaultDataDir = "~/.local/share/fieldnote"
	defaultLogDir  = "~/.local/share/fieldnote/logs"

	defaultBackendRequestTimeout = 30

	defaultTranscriptionBaseURL = "https://api.assemblyai.com/v2"
	defaultSpeechModel          = "universal"
	defaultPollInterval         = 3
	defaultPollTimeout          = 900

	defaultLLMBaseURL        = "https://api.groq.com/openai/v1"
	defaultLLMModel          = "deepseek-r1-distill-llama-70b"
	defaultLLMTimeoutSeconds = 120

	defaultSearchBaseURL        = "https://api.tavily.com"
	defaultSearchTimeoutSeconds = 30

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Backend: Backend{
			RequestTimeout: defaultBackendRequestTimeout,
		},
		Transcription: Transcription{
			BaseURL:      defaultTranscriptionBaseURL,
			SpeechModel:  defaultSpeechModel,
			PollInterval: defaultPollInterval,
			PollTimeout:  defaultPollTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Search: Search{
			BaseURL:        defaultSearchBaseURL,
			TimeoutSeconds: defaultSearchTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Ingest:         true,
			Analysis:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
