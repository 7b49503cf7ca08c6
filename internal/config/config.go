package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sectioncheck"

	// DefaultBatchSize is the number of documents validated concurrently.
	// Validation is CPU-bound, so a small multiple of typical core counts is enough.
	DefaultBatchSize = 8

	// DefaultMaxFileSize is the largest document read, in bytes.
	// Port pages are a few hundred kilobytes at most.
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

	// DefaultDebounce is how long watch mode waits for writes to settle
	// before re-validating a document. Editors often save in several writes.
	DefaultDebounce = 300 * time.Millisecond
)

// Config holds all options for one sectioncheck invocation.
// It is populated from CLI flags and the project file and passed explicitly
// to the components that need it.
type Config struct {
	// Targets are files, directories or doublestar globs to validate.
	Targets []string

	// StandardPath is a standard file given with --standard. It overrides
	// the project file's standard for every document.
	StandardPath string

	// ConfigFilePath is the project file given with --config. If empty,
	// FindConfigFile searches the current and home directories.
	ConfigFilePath string

	// Project is the loaded project file, or nil when none was found.
	Project *File

	// Verbose enables debug logging.
	Verbose bool

	// BatchSize is the number of documents validated concurrently.
	BatchSize int

	// MaxFileSize limits how many bytes of a document are read.
	MaxFileSize int64

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects GitHub Flavored Markdown output.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	// Parent directories are created as needed.
	ReportFile string

	// Color enables coloured severity labels in plain-text output.
	Color bool

	// Strict makes the command exit non-zero when any document has order
	// violations or missing required sections.
	Strict bool

	// Ignore holds extra doublestar patterns for documents to skip.
	Ignore []string

	// SaveToDB stores every report in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to $XDG_DATA_HOME/sectioncheck.
	DBDir string

	// ChangedOnly skips the content checks for documents whose hash
	// matches the last stored validation.
	ChangedOnly bool

	// Debounce is the watch mode settle time.
	Debounce time.Duration
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		BatchSize:   DefaultBatchSize,
		MaxFileSize: DefaultMaxFileSize,
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
		Debounce:    DefaultDebounce,
	}
}

// XDGDataDir returns the XDG data directory for sectioncheck.
// On Linux: ~/.local/share/sectioncheck
// On macOS: ~/Library/Application Support/sectioncheck
// On Windows: %LOCALAPPDATA%\sectioncheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sectioncheck.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any document is read.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.ChangedOnly && !c.SaveToDB {
		return ErrChangedOnlyWithoutHistory
	}

	if c.Debounce < 0 {
		return ErrInvalidDebounce
	}

	if c.MaxFileSize < 0 {
		return ErrInvalidMaxFileSize
	}

	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}

	return nil
}

// IgnorePatterns returns the --ignore patterns followed by the project
// file's top-level ignore list.
func (c *Config) IgnorePatterns() []string {
	patterns := append([]string(nil), c.Ignore...)
	if c.Project != nil {
		patterns = append(patterns, c.Project.Ignore...)
	}
	return patterns
}
