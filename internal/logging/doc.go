// Package logging builds slog loggers with console and JSON handlers and
// provides the standardized attribute helpers used across fieldnote.
package logging
