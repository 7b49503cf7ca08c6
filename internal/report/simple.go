package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/sectioncheck/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
// Colour is off by default so output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose enables descriptions and recommendations.
	verbose bool

	colors palette
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithColor enables coloured severity labels.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.colors.enabled = enabled
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report: detected sections in observed order,
// violations, missing sections and findings.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder
	w.writeReport(&sb, report)
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.Report) {
	summary := model.EnsureSummary(report)

	w.writeHeader(sb, summary, report.Standard)
	w.writeSections(sb, report)
	w.writeFindings(sb, summary)
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder
	w.writeHeader(&sb, summary, "")
	w.writeFindings(&sb, summary)
	return io.WriteString(w.output, sb.String())
}

// WriteBatch outputs each report followed by batch totals.
func (w *SimpleWriter) WriteBatch(reports []*model.Report) (int, error) {
	var sb strings.Builder
	for _, r := range reports {
		if r == nil {
			continue
		}
		w.writeReport(&sb, r)
	}

	t := Totals(reports)
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %d documents, %d valid, %d failed\n",
		w.colors.heading("TOTAL:"), t.Documents, t.Valid, t.Failed)
	fmt.Fprintf(&sb, "       %d order violations, %d missing sections, %d findings\n",
		t.Violations, t.Missing, t.Findings)
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the document header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.Summary, standardID string) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%s %s\n", w.colors.heading("Document:"), s.Path)
	if s.Title != "" {
		fmt.Fprintf(sb, "Title:    %s\n", s.Title)
	}
	if standardID != "" {
		fmt.Fprintf(sb, "Standard: %s\n", standardID)
	}
	fmt.Fprintf(sb, "Date:     %s\n", s.DateValidated.Format("2006-01-02 15:04:05 MST"))

	switch {
	case s.Error != "":
		fmt.Fprintf(sb, "Status:   %s\n", w.colors.severity(model.SeverityCritical, "ERROR - "+s.Error))
	case s.Violations == 0 && s.Missing == 0:
		fmt.Fprintf(sb, "Status:   %s\n", w.colors.ok("VALID"))
	default:
		fmt.Fprintf(sb, "Status:   %s (%d violations, %d missing)\n",
			w.colors.severity(model.SeverityHigh, "INVALID"), s.Violations, s.Missing)
	}
	if s.Unchanged {
		sb.WriteString("          unchanged since last validation\n")
	}
	sb.WriteString("\n")
}

// writeSections lists detected categories in observed order, marking the
// out-of-order ones, then the missing and unrecognized categories.
func (w *SimpleWriter) writeSections(sb *strings.Builder, report *model.Report) {
	if report.Record == nil {
		return
	}

	violated := make(map[model.Category]model.OrderViolation, len(report.Violations))
	for _, v := range report.Violations {
		violated[v.Category] = v
	}

	if report.Record.Len() > 0 || w.showEmpty {
		sb.WriteString(w.colors.heading("SECTIONS"))
		sb.WriteString("\n")
		if report.Record.Len() == 0 {
			sb.WriteString("  No sections detected\n")
		}
		for i, d := range report.Record.Detections {
			mark := w.colors.ok("ok")
			note := ""
			if v, ok := violated[d.Category]; ok {
				mark = w.colors.severity(model.SeverityHigh, "!!")
				note = " (after " + string(v.Previous) + ")"
			}
			fmt.Fprintf(sb, "  %2d. [%s] %-16s %s%s\n", i+1, mark, d.Category,
				truncateString(d.Block.Text, 40), note)
		}
		sb.WriteString("\n")
	}

	if len(report.Missing) > 0 {
		names := make([]string, len(report.Missing))
		for i, c := range report.Missing {
			names[i] = string(c)
		}
		fmt.Fprintf(sb, "%s %s\n", w.colors.heading("MISSING:"), strings.Join(names, ", "))
	}
	if len(report.Unrecognized) > 0 {
		names := make([]string, len(report.Unrecognized))
		for i, c := range report.Unrecognized {
			names[i] = string(c)
		}
		fmt.Fprintf(sb, "%s %s\n", w.colors.heading("UNRANKED:"), strings.Join(names, ", "))
	}
	if len(report.Missing) > 0 || len(report.Unrecognized) > 0 {
		sb.WriteString("\n")
	}
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, s *model.Summary) {
	if !s.HasFindings() && !w.showEmpty {
		return
	}

	fmt.Fprintf(sb, "%s critical %d, high %d, medium %d, low %d, info %d\n\n",
		w.colors.heading("FINDINGS:"),
		s.CriticalCount, s.HighCount, s.MediumCount, s.LowCount, s.InfoCount)

	for _, severity := range severities {
		findings := s.GetFindingsBySeverity(severity)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}
		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	label := fmt.Sprintf("[%s] %s", w.getSeverityIndicator(severity), severity.String())
	sb.WriteString(w.colors.severity(severity, label))
	sb.WriteString("\n")

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		fmt.Fprintf(sb, "  * %s\n", finding.Title)
		if finding.Location != "" {
			fmt.Fprintf(sb, "    Location: %s\n", finding.Location)
		}
		if w.verbose {
			if finding.Description != "" {
				fmt.Fprintf(sb, "    %s\n", finding.Description)
			}
			if finding.Recommendation != "" {
				fmt.Fprintf(sb, "    Fix: %s\n", finding.Recommendation)
			}
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}
