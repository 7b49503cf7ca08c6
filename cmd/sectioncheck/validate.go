package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/sectioncheck/internal/config"
	"github.com/nao1215/sectioncheck/internal/database"
	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/pipeline"
	"github.com/nao1215/sectioncheck/internal/report"
	"github.com/nao1215/sectioncheck/internal/source"
)

// errStrictFailure is returned by validate --strict when any document has
// order violations, missing required sections or could not be read.
var errStrictFailure = errors.New("strict validation failed")

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Validate the section order of port pages",
		Long: `Validate classifies the sections of each HTML document and checks them
against the content standard.

Targets may be files, directories (searched recursively for .html and .htm
files) or doublestar globs. For each document the report shows:
- Detected sections in document order
- Order violations (a section that appears before one it should follow)
- Missing sections (optional ones are informational)
- Duplicate and unrecognized sections
- Rubric deviations: word counts, narrative voice, banned phrases and
  gallery image credits

Every report is stored in the validation history unless --no-history is set.

Examples:
  # Validate every page under ports/
  sectioncheck validate ports/

  # Validate with a custom standard and fail on structural problems
  sectioncheck validate --standard standards/expedition.toml --strict ports/

  # Only re-run content checks for pages changed since the last run
  sectioncheck validate --changed-only "ports/**/*.html"

  # Write a Markdown report
  sectioncheck validate --markdown -o reports/ports.md ports/

Project file (.sectioncheck) example:
  standard: standards/port-page.yaml
  defaults:
    optional: [depth_soundings]
  paths:
    "ports/antarctica/**":
      standard: standards/expedition.yaml
      optional: [beaches, shopping]
    "drafts/**":
      ignore: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runValidateCmd,
	}

	addStandardFlags(cmd)

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of documents validated concurrently")
	cmd.Flags().StringSliceP("ignore", "i", nil,
		"Doublestar pattern of documents to skip (repeatable)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("color", false,
		"Colour severity labels in text output")

	// Behaviour flags
	cmd.Flags().Bool("strict", false,
		"Exit with an error if any document has order violations or missing required sections")
	cmd.Flags().Bool("no-history", false,
		"Do not store reports in the validation history")
	cmd.Flags().Bool("changed-only", false,
		"Skip content checks for documents unchanged since the last stored validation")

	return cmd
}

// addStandardFlags adds the flags that select the content standard.
func addStandardFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("standard", "s", "",
		"Standard file (.yaml, .toml or .json); overrides the project file")
	cmd.Flags().StringP("config", "c", "",
		"Project file path (default: .sectioncheck in current or home directory)")
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runValidate(ctx, cfg, cmd.OutOrStdout(), logger)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	if err := loadStandardFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.Ignore, err = cmd.Flags().GetStringSlice("ignore")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Color, err = cmd.Flags().GetBool("color")
	if err != nil {
		return nil, err
	}

	cfg.Strict, err = cmd.Flags().GetBool("strict")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	cfg.ChangedOnly, err = cmd.Flags().GetBool("changed-only")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.DBDir = getDBDir(cmd)
	cfg.Targets = args

	return cfg, nil
}

// loadStandardFlags reads --standard and --config and loads the project file.
// If the user named a project file explicitly, a missing file is an error;
// otherwise the search in FindConfigFile may come up empty.
func loadStandardFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	cfg.StandardPath, err = cmd.Flags().GetString("standard")
	if err != nil {
		return err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case configPath != "":
		cfg.Project, err = config.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case explicitConfigPath:
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return nil
}

// runValidate validates every target document and writes the reports to out
// (or cfg.ReportFile).
func runValidate(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	docs, err := expandTargets(cfg)
	if err != nil {
		return err
	}

	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	configOpts := []pipeline.DefaultPipelineOption{
		pipeline.WithPipelineMaxFileSize(cfg.MaxFileSize),
	}
	if cfg.ChangedOnly && db != nil {
		configOpts = append(configOpts, pipeline.WithPipelineHashLookup(hashLookup(ctx, db, logger)))
	}

	plans, docs, err := newPlanner(cfg, logger, configOpts...).PlanAll(docs)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("%w: every target is ignored by the project file", source.ErrNoDocuments)
	}

	logger.Info("starting validation",
		"documents", len(docs),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(path string) *pipeline.Pipeline { return plans[path] },
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	runID := uuid.NewString()
	reports := make([]*model.Report, len(docs))
	var mu sync.Mutex

	batchErr := bp.ProcessBatchWithCallback(ctx, docs, func(r *model.Report, index int) {
		mu.Lock()
		reports[index] = r
		mu.Unlock()

		if err := saveReport(ctx, db, runID, r, logger); err != nil {
			logger.Error("failed to save report", "path", r.Path, "error", err)
		}
	})

	logger.Info("validation complete",
		"documents", len(docs),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"run", runID,
	)

	if err := outputReports(cfg, out, reports); err != nil {
		return err
	}
	if batchErr != nil {
		return batchErr
	}

	if cfg.Strict {
		if failed := countStrictFailures(reports); failed > 0 {
			return fmt.Errorf("%w: %d of %d documents have order violations, missing required sections or errors",
				errStrictFailure, failed, len(docs))
		}
	}

	return nil
}

// expandTargets expands cfg.Targets to absolute document paths.
func expandTargets(cfg *config.Config) ([]string, error) {
	expander, err := source.NewExpander(source.WithIgnore(cfg.IgnorePatterns()...))
	if err != nil {
		return nil, err
	}

	paths, err := expander.Expand(cfg.Targets)
	if err != nil {
		return nil, err
	}

	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		paths[i] = abs
	}
	return paths, nil
}

// hashLookup adapts the history database to pipeline.HashLookup.
func hashLookup(ctx context.Context, db *database.HistoryDB, logger *slog.Logger) pipeline.HashLookup {
	return func(path string) (string, bool) {
		hash, ok, err := db.LatestHash(ctx, path)
		if err != nil {
			logger.Warn("failed to read stored hash", "path", path, "error", err)
			return "", false
		}
		return hash, ok
	}
}

// saveReport stores the report in the history if db is not nil. Unchanged
// reports are not stored: their rubric checks were skipped, and the last
// stored report already describes the document.
func saveReport(ctx context.Context, db *database.HistoryDB, runID string, r *model.Report, logger *slog.Logger) error {
	if db == nil || r == nil {
		return nil
	}
	if r.Unchanged {
		logger.Debug("document unchanged, history not updated", "path", r.Path)
		return nil
	}

	id, err := db.SaveReport(ctx, runID, r)
	if err != nil {
		return err
	}

	logger.Debug("report saved to database", "path", r.Path, "id", id)
	return nil
}

// outputReports writes reports in the configured format. A single report
// is written on its own; several are written as a batch with totals.
func outputReports(cfg *config.Config, out io.Writer, reports []*model.Report) error {
	dest, closeFn, err := openOutput(cfg, out)
	if err != nil {
		return err
	}
	defer closeFn()

	w := newWriter(cfg, dest)

	nonNil := make([]*model.Report, 0, len(reports))
	for _, r := range reports {
		if r != nil {
			nonNil = append(nonNil, r)
		}
	}

	if len(nonNil) == 1 {
		_, err = w.Write(nonNil[0])
	} else {
		_, err = w.WriteBatch(nonNil)
	}
	return err
}

// openOutput returns cfg.ReportFile opened for writing, or out when no
// report file is configured.
func openOutput(cfg *config.Config, out io.Writer) (io.Writer, func(), error) {
	if cfg.ReportFile == "" {
		return out, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// newWriter selects the report writer for cfg.
func newWriter(cfg *config.Config, dest io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(dest, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(dest)
	default:
		return report.NewSimpleWriter(dest,
			report.WithColor(cfg.Color && cfg.ReportFile == ""),
			report.WithVerbose(cfg.Verbose),
		)
	}
}

// countStrictFailures counts documents that fail --strict.
func countStrictFailures(reports []*model.Report) int {
	failed := 0
	for _, r := range reports {
		if r == nil {
			continue
		}
		if r.Error != nil || len(r.Violations) > 0 || hasRequiredMissing(r) {
			failed++
		}
	}
	return failed
}

// hasRequiredMissing reports whether a non-optional section is missing.
func hasRequiredMissing(r *model.Report) bool {
	for _, f := range r.Findings {
		if f.Type == model.FindingMissingSection {
			return true
		}
	}
	return false
}
