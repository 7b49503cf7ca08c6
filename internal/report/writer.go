package report

import (
	"io"

	"github.com/nao1215/sectioncheck/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the full report for one document.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)

	// WriteSummary outputs only the summary of one document.
	WriteSummary(summary *model.Summary) (int, error)

	// WriteBatch outputs the reports of several documents as one unit.
	WriteBatch(reports []*model.Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(report) })
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteSummary(summary) })
}

// WriteBatch outputs the reports to all configured Writers.
func (m *MultiWriter) WriteBatch(reports []*model.Report) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteBatch(reports) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// BatchTotals aggregates the summaries of a batch.
type BatchTotals struct {
	Documents  int `json:"documents"`
	Failed     int `json:"failed"`
	Valid      int `json:"valid"`
	Violations int `json:"violations"`
	Missing    int `json:"missing"`
	Findings   int `json:"findings"`
}

// Totals computes BatchTotals for reports, skipping nil entries.
func Totals(reports []*model.Report) BatchTotals {
	var t BatchTotals
	for _, r := range reports {
		if r == nil {
			continue
		}
		s := model.EnsureSummary(r)
		t.Documents++
		switch {
		case s.Error != "":
			t.Failed++
		case s.Violations == 0 && s.Missing == 0:
			t.Valid++
		}
		t.Violations += s.Violations
		t.Missing += s.Missing
		t.Findings += s.TotalFindings()
	}
	return t
}

// severities lists severity levels from most to least severe.
var severities = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
	model.SeverityInfo,
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
