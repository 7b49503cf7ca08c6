package model

import "time"

// Summary is a condensed view of a Report for terminal output, markdown and
// history listings.
type Summary struct {
	// Path is the validated document.
	Path string `json:"path"`

	// Title is the document title.
	Title string `json:"title,omitempty"`

	// DateValidated is when the validation ran.
	DateValidated time.Time `json:"date_validated"`

	// === Severity Summary ===

	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`
	InfoCount     int `json:"info_count"`

	// === Structure ===

	// Detected lists detected categories in observed order.
	Detected []Category `json:"detected,omitempty"`

	// Violations is the number of order violations.
	Violations int `json:"violations"`

	// Missing is the number of missing canonical categories.
	Missing int `json:"missing"`

	// Findings contains all findings.
	Findings []Finding `json:"findings,omitempty"`

	// Unchanged mirrors Report.Unchanged.
	Unchanged bool `json:"unchanged,omitempty"`

	// Error contains any error message if validation failed.
	Error string `json:"error,omitempty"`
}

// Finding represents a single deviation from the content standard.
type Finding struct {
	// Type is the finding type identifier; see findingInfoMapping.
	Type string `json:"type"`

	// Severity is the finding's severity.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Impact explains why the deviation matters to readers.
	Impact string `json:"impact,omitempty"`

	// Recommendation tells the author how to fix it.
	Recommendation string `json:"recommendation,omitempty"`

	// Category is the section the finding concerns, if any.
	Category Category `json:"category,omitempty"`

	// Value is the specific offending value (phrase, image, count).
	Value string `json:"value,omitempty"`

	// Location describes where in the document the finding applies.
	Location string `json:"location,omitempty"`
}

// NewSummary creates a Summary from a Report.
func NewSummary(report *Report) *Summary {
	s := &Summary{
		Path:          report.Path,
		Title:         report.Title,
		DateValidated: report.DateValidated,
		Detected:      report.DetectedCategories(),
		Violations:    len(report.Violations),
		Missing:       len(report.Missing),
		Findings:      report.Findings,
		Unchanged:     report.Unchanged,
	}
	if report.ErrorMessage != "" {
		s.Error = report.ErrorMessage
	} else if report.Error != nil {
		s.Error = report.Error.Error()
	}
	s.countBySeverity()
	return s
}

// EnsureSummary returns report.Summary, building it first if needed.
func EnsureSummary(report *Report) *Summary {
	if report.Summary == nil {
		report.Summary = NewSummary(report)
	}
	return report.Summary
}

// countBySeverity counts findings by severity level.
func (s *Summary) countBySeverity() {
	for _, f := range s.Findings {
		switch f.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		case SeverityInfo:
			s.InfoCount++
		}
	}
}

// TotalFindings returns the total number of findings.
func (s *Summary) TotalFindings() int {
	return len(s.Findings)
}

// HasFindings returns true if there are any findings.
func (s *Summary) HasFindings() bool {
	return len(s.Findings) > 0
}

// GetFindingsBySeverity returns findings filtered by severity.
func (s *Summary) GetFindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range s.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}

// RiskCounts returns the severity counts keyed by lowercase severity name.
func (s *Summary) RiskCounts() map[string]int {
	return map[string]int{
		"critical": s.CriticalCount,
		"high":     s.HighCount,
		"medium":   s.MediumCount,
		"low":      s.LowCount,
		"info":     s.InfoCount,
	}
}
