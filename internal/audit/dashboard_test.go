package audit

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateDashboardHTML_EmbedsEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Unix(0, 0), Severity: Denied, Kind: "permission", Tool: "bash_exec", Message: "denied"},
	}
	html, err := GenerateDashboardHTML(events)
	if err != nil {
		t.Fatalf("GenerateDashboardHTML: %v", err)
	}
	if strings.Contains(html, "__EVENTS_JSON__") {
		t.Fatalf("expected placeholder to be replaced, got %q", html)
	}
	if !strings.Contains(html, `"bash_exec"`) {
		t.Fatalf("expected event data embedded, got %q", html)
	}
}
