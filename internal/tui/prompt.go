package tui

import (
	"fmt"
	"sort"
	"strings"
)

// renderPrompt renders the ask-class permission overlay. It is shown in
// place of the list/detail view while a PromptRequest is pending; the
// previous view resumes once the operator answers.
func renderPrompt(m *Model) string {
	req := m.pending
	if req == nil {
		return renderList(m)
	}

	var body strings.Builder
	body.WriteString(promptTextStyle.Render("Permission requested") + "\n\n")
	body.WriteString("  Tool: " + toolStyle.Render(req.Tool) + "\n")

	if len(req.Args) > 0 {
		keys := make([]string, 0, len(req.Args))
		for k := range req.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			body.WriteString(fmt.Sprintf("    %s: %v\n", subtleStyle.Render(k), req.Args[k]))
		}
	}

	body.WriteString("\n" + helpStyle.Render("y approve  n deny"))

	return "\n" + promptBoxStyle.Render(body.String()) + "\n"
}
