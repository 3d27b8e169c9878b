package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nox-hq/sentinel/internal/audit"
)

const (
	colorFatal   = lipgloss.Color("196")
	colorDenied  = lipgloss.Color("208")
	colorWarning = lipgloss.Color("220")
	colorInfo    = lipgloss.Color("39")

	colorTitle    = lipgloss.Color("15")
	colorSubtle   = lipgloss.Color("244")
	colorSelected = lipgloss.Color("57")
	colorMatch    = lipgloss.Color("226")
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	selectedStyle  = lipgloss.NewStyle().Background(colorSelected).Foreground(lipgloss.Color("15"))
	matchLineStyle = lipgloss.NewStyle().Foreground(colorMatch).Bold(true)

	helpStyle   = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
	headerStyle = lipgloss.NewStyle().Foreground(colorTitle).Bold(true).Underline(true)

	toolStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("215")).Bold(true)

	promptBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDenied).Padding(1, 2)
	promptTextStyle = lipgloss.NewStyle().Foreground(colorTitle)
)

// severityStyle mirrors the teacher's severityStyle, retargeted from
// findings.Severity's five-level scale to audit.Severity's four.
func severityStyle(sev audit.Severity) lipgloss.Style {
	switch sev {
	case audit.Fatal:
		return lipgloss.NewStyle().Foreground(colorFatal).Bold(true)
	case audit.Denied:
		return lipgloss.NewStyle().Foreground(colorDenied).Bold(true)
	case audit.Warning:
		return lipgloss.NewStyle().Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Foreground(colorInfo)
	}
}

// severityBadge mirrors the teacher's four-char severity badges.
func severityBadge(sev audit.Severity) string {
	switch sev {
	case audit.Fatal:
		return "FATL"
	case audit.Denied:
		return "DENY"
	case audit.Warning:
		return "WARN"
	default:
		return "INFO"
	}
}
