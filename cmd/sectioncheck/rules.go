package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/sectioncheck/internal/config"
	"github.com/nao1215/sectioncheck/internal/model"
	"github.com/nao1215/sectioncheck/internal/standard"
)

// NewRulesCmd creates the rules command.
func NewRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "Print the active content standard",
		Long: `Rules prints the content standard that applies to a document: the canonical
section order, the classification rules in priority order and the rubric.

Without a path the project's default standard is shown. With a path, the
project file's per-path overrides are applied first.

Examples:
  # Show the built-in standard
  sectioncheck rules

  # Show the standard used for one page
  sectioncheck rules ports/antarctica/ushuaia.html

  # Export the standard as YAML to customise it
  sectioncheck rules --yaml > standards/port-page.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRulesCmd,
	}

	addStandardFlags(cmd)
	cmd.Flags().Bool("yaml", false, "Print the standard as a loadable YAML file")

	return cmd
}

// runRulesCmd executes the rules command.
func runRulesCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	if err := loadStandardFlags(cmd, cfg); err != nil {
		return err
	}

	asYAML, err := cmd.Flags().GetBool("yaml")
	if err != nil {
		return err
	}

	// Without a path, resolve the defaults as they apply to the project root.
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else if cfg.Project != nil {
		path = cfg.Project.Dir()
	}

	std, err := newPlanner(cfg, setupLogger(cmd)).Standard(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asYAML {
		data, err := standard.Marshal(std)
		if err != nil {
			return fmt.Errorf("failed to encode standard: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	writeStandard(out, std)
	return nil
}

// writeStandard prints std in a human-readable form.
func writeStandard(out io.Writer, std *standard.Standard) {
	fmt.Fprintf(out, "Standard: %s\n", std.ID())
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintln(out, "\nCanonical order:")
	for i, c := range std.Order.Categories() {
		marker := ""
		if std.Rubric.IsOptional(c) {
			marker = " (optional)"
		}
		fmt.Fprintf(out, "  %2d. %-16s %s%s\n", i+1, c, c.Title(), marker)
	}

	fmt.Fprintf(out, "\nClassification rules (%d, first match wins):\n", len(std.Rules))
	for i, r := range std.Rules {
		fmt.Fprintf(out, "  %2d. %-16s %s\n", i+1, r.Category, r.Pattern)
	}

	writeRubric(out, std.Rubric)
}

// writeRubric prints the rubric settings that are in effect.
func writeRubric(out io.Writer, rb standard.Rubric) {
	fmt.Fprintln(out, "\nRubric:")

	if len(rb.WordCounts) > 0 {
		categories := make([]model.Category, 0, len(rb.WordCounts))
		for c := range rb.WordCounts {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

		fmt.Fprintln(out, "  Word counts:")
		for _, c := range categories {
			fmt.Fprintf(out, "    %-16s %s\n", c, formatWordRange(rb.WordCounts[c]))
		}
	}

	if len(rb.FirstPerson) > 0 {
		fmt.Fprintf(out, "  First person:   %s (min ratio %.2f)\n",
			joinCategories(rb.FirstPerson), rb.FirstPersonMinRatio)
	}
	if len(rb.BannedPhrases) > 0 {
		fmt.Fprintf(out, "  Banned phrases: %s\n", strings.Join(rb.BannedPhrases, ", "))
	}
	fmt.Fprintf(out, "  Gallery credits required: %t\n", rb.GalleryCredits)
	if len(rb.Optional) > 0 {
		fmt.Fprintf(out, "  Optional:       %s\n", joinCategories(rb.Optional))
	}
}

func formatWordRange(r standard.WordRange) string {
	switch {
	case r.Min > 0 && r.Max > 0:
		return fmt.Sprintf("%d-%d words", r.Min, r.Max)
	case r.Min > 0:
		return fmt.Sprintf("at least %d words", r.Min)
	case r.Max > 0:
		return fmt.Sprintf("at most %d words", r.Max)
	default:
		return "unbounded"
	}
}

func joinCategories(categories []model.Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
