package audit

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed dashboard.html
var dashboardTemplate string

// GenerateDashboardHTML renders a static HTML page showing events, adapted
// from the teacher's server.GenerateDashboardHTML go:embed technique:
// a single HTML template with a JSON array injected in place of a
// placeholder token, generalized from "scan findings" to "audit events".
func GenerateDashboardHTML(events []Event) (string, error) {
	payload, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("marshaling events for dashboard: %w", err)
	}
	return strings.Replace(dashboardTemplate, "__EVENTS_JSON__", string(payload), 1), nil
}
