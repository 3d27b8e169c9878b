package tui

import (
	"fmt"
	"sort"
	"strings"
)

// renderDetail renders the detail view for a single audit event, the
// generalization of the teacher's renderDetail from an enriched finding
// (source context, CWE, remediation, references) to an audit event's own
// detail fields (timestamp, tool, and the free-form Detail map).
func renderDetail(m *Model) string {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return "No event selected."
	}

	ev := m.filtered[m.cursor]

	var b strings.Builder

	sevBadge := severityStyle(ev.Severity).Render(strings.ToUpper(string(ev.Severity)))
	b.WriteString(fmt.Sprintf(" %s · %s · %s\n",
		kindStyle.Render(ev.Kind),
		ev.Message,
		sevBadge))
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	b.WriteString(" " + fileStyle.Render(ev.Timestamp.Format("2006-01-02 15:04:05.000")) + "\n\n")

	if ev.Tool != "" {
		b.WriteString(" " + sectionStyle.Render("Tool") + "\n")
		b.WriteString("   " + toolStyle.Render(ev.Tool) + "\n\n")
	}

	if len(ev.Detail) > 0 {
		b.WriteString(" " + sectionStyle.Render("Detail") + "\n")
		keys := make([]string, 0, len(ev.Detail))
		for k := range ev.Detail {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("   %s: %s\n", subtleStyle.Render(k), ev.Detail[k]))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(" esc back  n/p next/prev  q quit"))
	b.WriteString("\n")

	return b.String()
}
