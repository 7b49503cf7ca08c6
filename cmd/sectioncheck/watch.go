package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/sectioncheck/internal/config"
	"github.com/nao1215/sectioncheck/internal/database"
	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/source"
	"github.com/nao1215/sectioncheck/internal/watch"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-validate port pages whenever they change",
		Long: `Watch validates the given directories or files once, then re-validates
each HTML document as soon as it is saved.

Directories are watched recursively; hidden directories, node_modules and
vendor are skipped. Rapid successive writes to the same file are collapsed
into one validation after the debounce interval. Reports are written to
standard output and stored in the validation history unless --no-history
is set.

Press Ctrl+C to stop.

Examples:
  # Watch the current directory
  sectioncheck watch

  # Watch one directory with a custom standard
  sectioncheck watch --standard standards/port-page.toml ports/

  # Emit one JSON report per change
  sectioncheck watch --json ports/`,
		Args: cobra.ArbitraryArgs,
		RunE: runWatchCmd,
	}

	addStandardFlags(cmd)

	cmd.Flags().Duration("debounce", config.DefaultDebounce,
		"Time a file must be quiet before it is re-validated")
	cmd.Flags().StringSliceP("ignore", "i", nil,
		"Doublestar pattern of documents to skip (repeatable)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON reports")
	cmd.Flags().Bool("color", false, "Colour severity labels in text output")
	cmd.Flags().Bool("no-history", false, "Do not store reports in the validation history")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildWatchConfig(cmd, args)
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

	return runWatch(ctx, cfg, cmd.OutOrStdout(), logger)
}

// buildWatchConfig creates a Config from the watch command's flags.
func buildWatchConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	if err := loadStandardFlags(cmd, cfg); err != nil {
		return nil, err
	}

	var err error

	cfg.Debounce, err = cmd.Flags().GetDuration("debounce")
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

	cfg.Color, err = cmd.Flags().GetBool("color")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.DBDir = getDBDir(cmd)

	cfg.Targets = args
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{"."}
	}

	return cfg, nil
}

// runWatch validates every target once and then re-validates changed
// documents until ctx is done.
func runWatch(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	if err := runValidate(ctx, cfg, out, logger); err != nil && !errors.Is(err, source.ErrNoDocuments) {
		return err
	}

	expander, err := source.NewExpander(source.WithIgnore(cfg.IgnorePatterns()...))
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
	}

	watcher, err := watch.NewWatcher(watch.Config{
		Roots:    cfg.Targets,
		Debounce: cfg.Debounce,
		Filter: func(path string) bool {
			return expander.IsDocument(path) && !expander.Ignored(path)
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	s := &watchSession{
		cfg:     cfg,
		out:     out,
		logger:  logger,
		db:      db,
		planner: newPlanner(cfg, logger),
		runID:   uuid.NewString(),
	}

	for event := range watcher.Events() {
		s.handle(ctx, event)
	}

	logger.Info("watch stopped", "run", s.runID, "validations", s.count)
	return nil
}

// watchSession re-validates documents for one watch invocation. All
// reports share one history run id.
type watchSession struct {
	cfg     *config.Config
	out     io.Writer
	logger  *slog.Logger
	db      *database.HistoryDB
	planner *planner
	runID   string
	count   int
}

// handle re-validates the document named by event.
func (s *watchSession) handle(ctx context.Context, event watch.Event) {
	if event.Op == watch.OpRemove {
		s.logger.Info("document removed", "path", event.Path)
		return
	}

	pl, ignored, err := s.planner.Plan(event.Path)
	if err != nil {
		s.logger.Error("failed to plan validation", "path", event.Path, "error", err)
		return
	}
	if ignored {
		s.logger.Debug("document ignored by project file", "path", event.Path)
		return
	}

	r := model.NewReport(event.Path)
	if err := pl.Execute(ctx, r); err != nil {
		s.logger.Warn("validation failed", "path", event.Path, "error", err)
	}
	model.EnsureSummary(r)
	s.count++

	if _, err := newWriter(s.cfg, s.out).Write(r); err != nil {
		s.logger.Error("failed to write report", "path", event.Path, "error", err)
	}

	if err := saveReport(ctx, s.db, s.runID, r, s.logger); err != nil {
		s.logger.Error("failed to save report", "path", r.Path, "error", err)
	}
}
