// Package config loads and validates the fieldnote TOML configuration.
//
// Configuration is resolved from an explicit path, ~/.config/fieldnote/config.toml,
// or fieldnote.toml in the working directory. A missing file is not an error;
// defaults apply. API keys may be supplied through the environment (optionally
// via a .env file) instead of the config file.
package config
