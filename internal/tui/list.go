package tui

import (
	"fmt"
	"strings"

	"github.com/nox-hq/sentinel/internal/audit"
)

// renderList renders the transcript list view, the direct generalization
// of the teacher's renderList from a static finding list to a live event
// feed.
func renderList(m *Model) string {
	var b strings.Builder

	title := titleStyle.Render(fmt.Sprintf(" sentinel — %d events", len(m.filtered)))
	if len(m.events) != len(m.filtered) {
		title += subtleStyle.Render(fmt.Sprintf(" (of %d total)", len(m.events)))
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	filterLine := subtleStyle.Render(" Filter: ") + "[" + string(m.filter.activeSeverity()) + "]"
	if m.filter.search != "" {
		filterLine += subtleStyle.Render("  Search: ") + "[" + m.filter.search + "]"
	}
	b.WriteString(filterLine)
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(subtleStyle.Render("  No events match the current filters.\n"))
	} else {
		visibleLines := m.height - 8
		if visibleLines < 1 {
			visibleLines = 1
		}
		start := m.cursor - visibleLines/2
		if start < 0 {
			start = 0
		}
		end := start + visibleLines
		if end > len(m.filtered) {
			end = len(m.filtered)
			start = end - visibleLines
			if start < 0 {
				start = 0
			}
		}

		for i := start; i < end; i++ {
			line := renderEventLine(m.filtered[i], i == m.cursor)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if m.filter.searching {
		b.WriteString("\n")
		b.WriteString(" Search: " + m.filter.search + "█")
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" ↑↓ navigate  enter detail  / search  s severity  q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderEventLine renders a single audit event line in the list.
func renderEventLine(ev audit.Event, selected bool) string {
	badge := severityStyle(ev.Severity).Render(severityBadge(ev.Severity))
	kind := kindStyle.Render(fmt.Sprintf("%-16s", ev.Kind))

	tool := ev.Tool
	if tool == "" {
		tool = "-"
	}
	toolCol := toolStyle.Render(fmt.Sprintf("%-12s", tool))

	line := fmt.Sprintf(" %s  %s  %s  %s", badge, kind, toolCol, ev.Message)

	if selected {
		return selectedStyle.Render("▸") + line
	}
	return " " + line
}
