package config

import "errors"

// Configuration validation errors returned by Config.Validate and the
// project file loader. Callers match them with errors.Is.
var (
	// ErrNoTarget is returned when no document, directory or glob is given.
	ErrNoTarget = errors.New("no target specified: provide a file, directory or glob")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrChangedOnlyWithoutHistory is returned when --changed-only is combined
	// with --no-history; change detection needs the stored hashes.
	ErrChangedOnlyWithoutHistory = errors.New("--changed-only requires validation history; remove --no-history")

	// ErrInvalidDebounce is returned when the watch debounce is negative.
	ErrInvalidDebounce = errors.New("invalid debounce: must be non-negative")

	// ErrInvalidMaxFileSize is returned when the max file size is negative.
	ErrInvalidMaxFileSize = errors.New("invalid max file size: must be non-negative")

	// ErrInvalidPattern is returned for malformed glob patterns.
	ErrInvalidPattern = errors.New("invalid glob pattern")

	// ErrUnknownCategory is returned when the project file names a category
	// that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
)
