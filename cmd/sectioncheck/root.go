package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/sectioncheck/internal/config"
	"github.com/nao1215/sectioncheck/internal/log"
)

// NewRootCmd creates the root command for sectioncheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sectioncheck",
		Short: "Validate the section order of port pages",
		Long: `sectioncheck checks static HTML port pages against a content standard.

Each page's headings and section containers are classified into section
categories (hero, logbook, cruise_port, ..., back_nav). The first occurrence
of each category forms the page's detection record, which is checked against
the standard's canonical order. Missing sections, duplicates and rubric
deviations (word counts, narrative voice, banned phrases, gallery credits)
are reported alongside order violations.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"Directory of the validation history database")

	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewRulesCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getBoolFlag reads a bool flag from the command or the root's persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getDBDir returns the history directory from --db-dir, or the XDG default
// when the command is run outside the root command.
func getDBDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil || dir == "" {
		return config.XDGDataDir()
	}
	return dir
}

// setupLogger creates the process logger from --verbose and --log-json.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getBoolFlag(cmd, "verbose")
	if getBoolFlag(cmd, "log-json") {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}
