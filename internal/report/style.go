package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/sectioncheck/internal/model"
)

// palette colours severity labels and status words in terminal output.
type palette struct {
	enabled bool
}

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	headingStyle  = lipgloss.NewStyle().Bold(true)
)

func (p palette) severity(s model.Severity, text string) string {
	if !p.enabled {
		return text
	}
	switch s {
	case model.SeverityCritical:
		return criticalStyle.Render(text)
	case model.SeverityHigh:
		return highStyle.Render(text)
	case model.SeverityMedium:
		return mediumStyle.Render(text)
	case model.SeverityLow:
		return lowStyle.Render(text)
	default:
		return infoStyle.Render(text)
	}
}

func (p palette) ok(text string) string {
	if !p.enabled {
		return text
	}
	return okStyle.Render(text)
}

func (p palette) heading(text string) string {
	if !p.enabled {
		return text
	}
	return headingStyle.Render(text)
}
