package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/sectioncheck/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for pull requests and
// documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Section Check: " + report.Path)
	md.PlainText("")
	w.writeReport(md, report)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Section Check: " + summary.Path)
	md.PlainText("")
	w.writeInfo(md, summary, "")
	w.writeSeverity(md, summary)
	w.writeFindings(md, summary)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteBatch outputs an overview table followed by each document.
func (w *MarkdownWriter) WriteBatch(reports []*model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Section Check Report")
	md.PlainText("")

	t := Totals(reports)
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		s := model.EnsureSummary(r)
		rows = append(rows, []string{
			"`" + r.Path + "`",
			statusText(s),
			strconv.Itoa(s.Violations),
			strconv.Itoa(s.Missing),
			strconv.Itoa(s.TotalFindings()),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Document", "Status", "Violations", "Missing", "Findings"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainTextf("%d documents, %d valid, %d failed.", t.Documents, t.Valid, t.Failed)
	md.PlainText("")

	for _, r := range reports {
		if r == nil {
			continue
		}
		md.H2(r.Path)
		md.PlainText("")
		w.writeReport(md, r)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.Report) {
	s := model.EnsureSummary(report)
	w.writeInfo(md, s, report.Standard)
	w.writeSections(md, report)
	w.writeSeverity(md, s)
	w.writeFindings(md, s)
}

// writeInfo writes the document property table.
func (w *MarkdownWriter) writeInfo(md *markdown.Markdown, s *model.Summary, standardID string) {
	rows := [][]string{
		{"Title", s.Title},
		{"Validated", s.DateValidated.Format("2006-01-02 15:04:05 MST")},
		{"Status", statusText(s)},
	}
	if standardID != "" {
		rows = append(rows, []string{"Standard", "`" + standardID + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusText(s *model.Summary) string {
	switch {
	case s.Error != "":
		return "❌ Error - " + s.Error
	case s.Violations == 0 && s.Missing == 0:
		return "✅ Valid"
	default:
		return "⚠️ Invalid"
	}
}

// writeSections writes the detection record as a table, plus missing and
// unrecognized categories.
func (w *MarkdownWriter) writeSections(md *markdown.Markdown, report *model.Report) {
	if report.Record == nil {
		return
	}

	violated := make(map[model.Category]model.Category, len(report.Violations))
	for _, v := range report.Violations {
		violated[v.Category] = v.Previous
	}

	md.PlainText("**Detected sections**")
	md.PlainText("")
	if report.Record.Len() == 0 {
		md.PlainText("No sections detected.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(report.Record.Detections))
		for i, d := range report.Record.Detections {
			order := "✅"
			if prev, ok := violated[d.Category]; ok {
				order = "⚠️ after `" + string(prev) + "`"
			}
			rows[i] = []string{
				strconv.Itoa(i + 1),
				"`" + string(d.Category) + "`",
				truncateString(escapePipes(d.Block.Text), 50),
				"`" + d.Match + "`",
				order,
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"#", "Category", "Block", "Match", "Order"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(report.Missing) > 0 {
		md.PlainText("**Missing sections**")
		md.PlainText("")
		md.BulletList(categoryNames(report.Missing)...)
		md.PlainText("")
	}
	if len(report.Unrecognized) > 0 {
		md.PlainText("**Unranked categories**")
		md.PlainText("")
		md.BulletList(categoryNames(report.Unrecognized)...)
		md.PlainText("")
	}
}

// writeSeverity writes the severity table, pie chart and alert.
func (w *MarkdownWriter) writeSeverity(md *markdown.Markdown, s *model.Summary) {
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(s.CriticalCount)},
			{"🟠 High", strconv.Itoa(s.HighCount)},
			{"🟡 Medium", strconv.Itoa(s.MediumCount)},
			{"🔵 Low", strconv.Itoa(s.LowCount)},
			{"⚪ Info", strconv.Itoa(s.InfoCount)},
			{"**Total**", "**" + strconv.Itoa(s.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if s.HasFindings() {
		w.writePieChart(md, s)
	}
	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	counts := []struct {
		label string
		n     int
	}{
		{"Critical", s.CriticalCount},
		{"High", s.HighCount},
		{"Medium", s.MediumCount},
		{"Low", s.LowCount},
		{"Info", s.InfoCount},
	}
	for _, c := range counts {
		if c.n > 0 {
			chart.LabelAndIntValue(c.label, uint64(c.n)) //nolint:gosec // Counts are never negative
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *model.Summary) {
	switch {
	case s.CriticalCount > 0:
		md.Cautionf("The document could not be validated: %s", s.Error)
	case s.HighCount > 0:
		md.Warningf("%d section(s) are out of canonical order.", s.HighCount)
	case s.MediumCount > 0:
		md.Importantf("%d finding(s) need an editor's attention.", s.MediumCount)
	case s.TotalFindings() > 0:
		md.Note("Only low severity and informational findings.")
	default:
		md.Tip("The page follows the content standard.")
	}
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, s *model.Summary) {
	if !s.HasFindings() {
		return
	}

	headers := map[model.Severity]string{
		model.SeverityCritical: "🔴 Critical",
		model.SeverityHigh:     "🟠 High",
		model.SeverityMedium:   "🟡 Medium",
		model.SeverityLow:      "🔵 Low",
		model.SeverityInfo:     "⚪ Info",
	}

	for _, sev := range severities {
		findings := s.GetFindingsBySeverity(sev)
		if len(findings) == 0 {
			continue
		}
		md.PlainText("**" + headers[sev] + "**")
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	rows := make([][]string, len(findings))
	for i, f := range findings {
		rows[i] = []string{
			escapePipes(f.Title),
			orDash(truncateString(escapePipes(f.Location), 40)),
			orDash(truncateString(f.Recommendation, 60)),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Location", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, f := range findings {
		if f.Description != "" {
			md.Details(f.Title, f.Description)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [sectioncheck](https://github.com/nao1215/sectioncheck)*")
}

func categoryNames(categories []model.Category) []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = "`" + string(c) + "` " + c.Title()
	}
	return names
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
