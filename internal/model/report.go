package model

import "time"

// Report is the validation result for a single document.
// It carries the raw classifier and order-validator output alongside the
// findings derived from them, so that writers and the history store can use
// whichever view they need.
type Report struct {
	// Path is the document's file path as given to the validator.
	Path string `json:"path"`

	// Title is the document's <title> text.
	Title string `json:"title,omitempty"`

	// Standard identifies the content standard used ("name@version").
	Standard string `json:"standard,omitempty"`

	// DateValidated is when validation started.
	DateValidated time.Time `json:"date_validated"`

	// ContentHash is the hex SHA3-256 of the document bytes.
	ContentHash string `json:"content_hash,omitempty"`

	// Blocks holds the candidate blocks extracted from the document.
	Blocks []Block `json:"-"`

	// BlockCount is len(Blocks), kept for serialized reports.
	BlockCount int `json:"block_count"`

	// Record is the detection record built by the classifier.
	Record *Record `json:"record,omitempty"`

	// Violations lists order violations in record order.
	Violations []OrderViolation `json:"violations,omitempty"`

	// Missing lists canonical categories absent from the record, in canonical order.
	Missing []Category `json:"missing,omitempty"`

	// Unrecognized lists detected categories the canonical order does not rank.
	Unrecognized []Category `json:"unrecognized,omitempty"`

	// Findings contains every reportable deviation with severity and guidance.
	Findings []Finding `json:"findings,omitempty"`

	// Summary contains severity counts for writers and history.
	Summary *Summary `json:"summary,omitempty"`

	// PerformedSteps lists the pipeline steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Unchanged is true when the document hash matched the last stored
	// validation and the rubric was not re-run.
	Unchanged bool `json:"unchanged,omitempty"`

	// Error contains any error that stopped part of the validation.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewReport creates a new report for the document at path.
func NewReport(path string) *Report {
	return &Report{
		Path:          path,
		DateValidated: time.Now(),
		Findings:      make([]Finding, 0),
	}
}

// AddFinding appends a finding unless an identical one (same type,
// category and value) is already present.
func (r *Report) AddFinding(finding Finding) {
	for _, f := range r.Findings {
		if f.Type == finding.Type && f.Category == finding.Category && f.Value == finding.Value {
			return
		}
	}
	r.Findings = append(r.Findings, finding)
	r.Summary = nil
}

// HasStructuralIssues reports whether the document has order violations or
// missing sections.
func (r *Report) HasStructuralIssues() bool {
	return len(r.Violations) > 0 || len(r.Missing) > 0
}

// DetectedCategories returns the detected categories in observed order.
func (r *Report) DetectedCategories() []Category {
	if r.Record == nil {
		return nil
	}
	return r.Record.Categories()
}
