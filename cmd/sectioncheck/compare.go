package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sectioncheck/internal/database"
	"github.com/nao1215/sectioncheck/internal/model"
)

// Constants for status direction and summary messages.
const (
	directionWorsened  = "worsened"
	directionImproved  = "improved"
	directionUnchanged = "unchanged"
	noFindingsMessage  = "No findings"
)

// NewCompareCmd creates the compare command.
// This command compares validation results stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [path]",
		Short: "Compare validation results with historical data",
		Long: `Compare displays differences between the latest validation of a document
and an earlier one.

It shows:
- New findings that appeared since the earlier validation
- Resolved findings that are no longer present
- Changes in order violations, missing sections and severity counts

The comparison requires at least two validations of the document in the
history. Use 'sectioncheck validate' to validate documents and save results.

Examples:
  # Compare the latest two validations of a page
  sectioncheck compare ports/lisbon.html

  # List the validation history of a page
  sectioncheck compare --list ports/lisbon.html

  # Compare with a specific historical validation by ID
  sectioncheck compare --with-id 5 ports/lisbon.html

  # Output comparison in JSON format
  sectioncheck compare --json ports/lisbon.html

  # List all documents in the history
  sectioncheck compare --list-paths`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List validation history for the specified document")
	cmd.Flags().BoolP("list-paths", "L", false,
		"List all documents in the validation history")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with a specific validation by ID (use --list to see available IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listPaths, err := cmd.Flags().GetBool("list-paths")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var docPath string
	if !listPaths {
		if len(args) == 0 {
			return errors.New("document path is required (use --list-paths to see validated documents)")
		}
		docPath, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid document path: %w", err)
		}
	}

	db, err := database.Open(getDBDir(cmd), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if listPaths {
		return listValidatedPaths(ctx, db, out)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listValidationHistory(ctx, db, out, docPath)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	withID, err := cmd.Flags().GetInt64("with-id")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, out, docPath, withID, jsonOutput)
}

// listValidatedPaths lists every document with stored validations.
func listValidatedPaths(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	paths, err := db.ListValidatedPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(paths) == 0 {
		fmt.Fprintln(out, "No validated documents found in the database.")
		fmt.Fprintln(out, "\nUse 'sectioncheck validate <path>' to validate documents.")
		return nil
	}

	fmt.Fprintf(out, "Validated documents (%d):\n\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(out, "  • %s\n", p)
	}
	fmt.Fprintln(out, "\nUse 'sectioncheck compare --list <path>' to see the history of a document.")

	return nil
}

// listValidationHistory lists every stored validation of docPath.
func listValidationHistory(ctx context.Context, db *database.HistoryDB, out io.Writer, docPath string) error {
	metas, err := db.GetHistoryWithMetadata(ctx, docPath)
	if err != nil {
		return fmt.Errorf("failed to get validation history: %w", err)
	}

	if len(metas) == 0 {
		fmt.Fprintf(out, "No validation history found for %s\n", docPath)
		fmt.Fprintln(out, "\nUse 'sectioncheck validate' to validate this document.")
		return nil
	}

	fmt.Fprintf(out, "Validation history for %s (%d validations):\n\n", docPath, len(metas))
	fmt.Fprintf(out, "  %-6s  %-20s  %-10s  %-7s  %-18s  %s\n", "ID", "Date", "Violations", "Missing", "Standard", "Findings")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 84))

	for _, meta := range metas {
		fmt.Fprintf(out, "  %-6d  %-20s  %-10d  %-7d  %-18s  %s\n",
			meta.ID,
			meta.Timestamp.Local().Format("2006-01-02 15:04:05"),
			meta.Violations,
			meta.Missing,
			meta.Standard,
			formatRiskSummary(meta.RiskSummary),
		)
	}

	fmt.Fprintln(out, "\nUse 'sectioncheck compare <path>' to compare the latest two validations.")
	fmt.Fprintln(out, "Use 'sectioncheck compare --with-id <id> <path>' to compare with a specific validation.")

	return nil
}

// formatRiskSummary formats the severity counts into a compact string.
func formatRiskSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	for _, s := range []struct{ key, label string }{
		{"critical", "C"}, {"high", "H"}, {"medium", "M"}, {"low", "L"}, {"info", "I"},
	} {
		if v := summary[s.key]; v > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", s.label, v))
		}
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison compares the latest validation of docPath with the previous
// one, or with the validation withID when it is non-zero.
func runComparison(ctx context.Context, db *database.HistoryDB, out io.Writer, docPath string, withID int64, jsonOutput bool) error {
	reports, err := db.GetHistory(ctx, docPath)
	if err != nil {
		return fmt.Errorf("failed to get validation history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no validation history found for %s", docPath)
	}

	if len(reports) < 2 && withID == 0 {
		return fmt.Errorf("at least 2 validations are required for comparison (found %d)", len(reports))
	}

	current := reports[0]
	var previous *model.Report

	if withID > 0 {
		previous, err = db.GetReportByID(ctx, withID)
		if err != nil {
			return fmt.Errorf("failed to get validation with ID %d: %w", withID, err)
		}
		if previous == nil {
			return fmt.Errorf("validation with ID %d not found", withID)
		}
		if previous.Path != docPath {
			return fmt.Errorf("validation ID %d belongs to %s, not %s", withID, previous.Path, docPath)
		}
	} else {
		previous = reports[1]
	}

	comparison := compareReports(previous, current)

	if jsonOutput {
		return outputComparisonJSON(out, comparison)
	}
	return outputComparisonText(out, comparison)
}

// ComparisonResult holds the result of comparing two validations.
type ComparisonResult struct {
	// Path is the validated document.
	Path string `json:"path"`

	// Previous describes the earlier validation.
	Previous ValidationMetadata `json:"previous"`

	// Current describes the latest validation.
	Current ValidationMetadata `json:"current"`

	// NewFindings are present now but not before.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings were present before but not now.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings present in both.
	UnchangedCount int `json:"unchanged_count"`

	// Change describes the overall change.
	Change StatusChange `json:"change"`
}

// ValidationMetadata summarises one validation for comparison display.
type ValidationMetadata struct {
	DateValidated time.Time `json:"date_validated"`
	Standard      string    `json:"standard,omitempty"`
	ContentHash   string    `json:"content_hash,omitempty"`
	Violations    int       `json:"violations"`
	Missing       int       `json:"missing"`
	TotalFindings int       `json:"total_findings"`
	CriticalCount int       `json:"critical_count"`
	HighCount     int       `json:"high_count"`
	MediumCount   int       `json:"medium_count"`
	LowCount      int       `json:"low_count"`
	InfoCount     int       `json:"info_count"`
}

// StatusChange describes the change between two validations.
type StatusChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// ContentChanged is true when the document bytes differ.
	ContentChanged bool `json:"content_changed"`

	ViolationsDelta int `json:"violations_delta"`
	MissingDelta    int `json:"missing_delta"`
	CriticalDelta   int `json:"critical_delta"`
	HighDelta       int `json:"high_delta"`
	MediumDelta     int `json:"medium_delta"`
	LowDelta        int `json:"low_delta"`
	InfoDelta       int `json:"info_delta"`
}

// newValidationMetadata extracts comparison metadata from a report.
func newValidationMetadata(r *model.Report) ValidationMetadata {
	s := model.EnsureSummary(r)
	return ValidationMetadata{
		DateValidated: r.DateValidated,
		Standard:      r.Standard,
		ContentHash:   r.ContentHash,
		Violations:    len(r.Violations),
		Missing:       len(r.Missing),
		TotalFindings: s.TotalFindings(),
		CriticalCount: s.CriticalCount,
		HighCount:     s.HighCount,
		MediumCount:   s.MediumCount,
		LowCount:      s.LowCount,
		InfoCount:     s.InfoCount,
	}
}

// compareReports compares two validations of the same document.
func compareReports(previous, current *model.Report) *ComparisonResult {
	result := &ComparisonResult{
		Path:     current.Path,
		Previous: newValidationMetadata(previous),
		Current:  newValidationMetadata(current),
	}

	previousFindings := make(map[string]model.Finding)
	for _, f := range previous.Findings {
		previousFindings[findingKey(f)] = f
	}
	currentFindings := make(map[string]model.Finding)
	for _, f := range current.Findings {
		currentFindings[findingKey(f)] = f
	}

	for key, f := range currentFindings {
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, f)
		}
	}
	for key, f := range previousFindings {
		if _, exists := currentFindings[key]; !exists {
			result.ResolvedFindings = append(result.ResolvedFindings, f)
		} else {
			result.UnchangedCount++
		}
	}
	sortFindings(result.NewFindings)
	sortFindings(result.ResolvedFindings)

	result.Change = calculateChange(result.Previous, result.Current)

	return result
}

// findingKey identifies a finding across validations.
func findingKey(f model.Finding) string {
	return f.Type + "|" + string(f.Category) + "|" + f.Value
}

// sortFindings orders findings by severity, then type and category.
func sortFindings(findings []model.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity > findings[j].Severity
		}
		if findings[i].Type != findings[j].Type {
			return findings[i].Type < findings[j].Type
		}
		return findings[i].Category < findings[j].Category
	})
}

// calculateChange computes deltas and the overall direction. Structural
// problems weigh most, then findings by severity.
func calculateChange(previous, current ValidationMetadata) StatusChange {
	change := StatusChange{
		ContentChanged:  previous.ContentHash != current.ContentHash,
		ViolationsDelta: current.Violations - previous.Violations,
		MissingDelta:    current.Missing - previous.Missing,
		CriticalDelta:   current.CriticalCount - previous.CriticalCount,
		HighDelta:       current.HighCount - previous.HighCount,
		MediumDelta:     current.MediumCount - previous.MediumCount,
		LowDelta:        current.LowCount - previous.LowCount,
		InfoDelta:       current.InfoCount - previous.InfoCount,
	}

	previousScore := score(previous)
	currentScore := score(current)

	switch {
	case currentScore < previousScore:
		change.Direction = directionImproved
	case currentScore > previousScore:
		change.Direction = directionWorsened
	default:
		change.Direction = directionUnchanged
	}

	return change
}

func score(m ValidationMetadata) int {
	return m.CriticalCount*100 + m.HighCount*50 + m.MediumCount*10 + m.LowCount*5 + m.InfoCount
}

// outputComparisonJSON writes the comparison result as JSON.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText writes the comparison result as plain text.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Validation Comparison: %s\n", result.Path)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nStatus: %s\n", formatDirection(result.Change.Direction))
	if !result.Change.ContentChanged {
		fmt.Fprintln(out, "Content: unchanged")
	}

	fmt.Fprintf(out, "\nPrevious validation: %s\n", result.Previous.DateValidated.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current validation:  %s\n", result.Current.DateValidated.Local().Format("2006-01-02 15:04:05"))

	row := func(label string, prev, cur, delta int) {
		fmt.Fprintf(out, "  %-12s  %-10d  %-10d  %-10s\n", label, prev, cur, formatDelta(delta))
	}

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  %-12s  %-10s  %-10s  %-10s\n", "", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 47))
	row("Violations", result.Previous.Violations, result.Current.Violations, result.Change.ViolationsDelta)
	row("Missing", result.Previous.Missing, result.Current.Missing, result.Change.MissingDelta)
	fmt.Fprintln(out, "  "+strings.Repeat("-", 47))
	row("Critical", result.Previous.CriticalCount, result.Current.CriticalCount, result.Change.CriticalDelta)
	row("High", result.Previous.HighCount, result.Current.HighCount, result.Change.HighDelta)
	row("Medium", result.Previous.MediumCount, result.Current.MediumCount, result.Change.MediumDelta)
	row("Low", result.Previous.LowCount, result.Current.LowCount, result.Change.LowDelta)
	row("Info", result.Previous.InfoCount, result.Current.InfoCount, result.Change.InfoDelta)
	fmt.Fprintln(out, "  "+strings.Repeat("-", 47))
	row("Total", result.Previous.TotalFindings, result.Current.TotalFindings,
		result.Current.TotalFindings-result.Previous.TotalFindings)

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "\nNew Findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "  [+] [%s] %s\n", f.SeverityText, f.Title)
			if f.Location != "" {
				fmt.Fprintf(out, "      Location: %s\n", f.Location)
			}
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "  [-] [%s] %s\n", f.SeverityText, f.Title)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// formatDirection formats the change direction for display.
func formatDirection(direction string) string {
	switch direction {
	case directionImproved:
		return "IMPROVED (fewer or less severe findings)"
	case directionWorsened:
		return "WORSENED (more or more severe findings)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
