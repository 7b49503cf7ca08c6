// Package log provides slog loggers for sectioncheck that keep page content
// from flooding the log.
//
// Validation logs block signatures, matched excerpts and section bodies at
// debug level. The ExcerptHandler wraps any slog.Handler and:
//   - collapses newlines, tabs and runs of spaces in string values
//   - shortens values of content keys (text, body, excerpt, ...) to a short excerpt
//   - caps every other string value at a larger limit
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("block classified", "category", "history", "signature", sig)
//	slog.SetDefault(logger)
package log
