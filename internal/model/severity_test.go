package model

import "testing"

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "INFO"},
		{SeverityLow, "LOW"},
		{SeverityMedium, "MEDIUM"},
		{SeverityHigh, "HIGH"},
		{SeverityCritical, "CRITICAL"},
		{Severity(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		findingType string
		want        Severity
	}{
		{FindingOrderViolation, SeverityHigh},
		{FindingMissingSection, SeverityMedium},
		{FindingMissingOptionalSection, SeverityInfo},
		{FindingDuplicateSection, SeverityLow},
		{FindingDocumentError, SeverityCritical},
		{"no_such_type", SeverityInfo},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.findingType, func(t *testing.T) {
			t.Parallel()
			if got := GetSeverity(tt.findingType); got != tt.want {
				t.Errorf("GetSeverity(%q) = %v, want %v", tt.findingType, got, tt.want)
			}
		})
	}
}

func TestNewFinding(t *testing.T) {
	t.Parallel()

	f := NewFinding(FindingOrderViolation, "FAQ out of order", "faq after gallery")
	if f.Severity != SeverityHigh {
		t.Errorf("expected HIGH severity, got %v", f.Severity)
	}
	if f.SeverityText != "HIGH" {
		t.Errorf("expected severity text HIGH, got %q", f.SeverityText)
	}
	if f.Recommendation == "" {
		t.Error("expected recommendation to be filled in")
	}
}
