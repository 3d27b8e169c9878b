package tui

import (
	"testing"

	"github.com/nox-hq/sentinel/internal/audit"
)

func TestFilterState_SeverityCycleWraps(t *testing.T) {
	f := newFilterState()
	if f.activeSeverity() != "" {
		t.Fatalf("expected no filter initially, got %q", f.activeSeverity())
	}
	for range severityOrder {
		f.cycleSeverity()
	}
	if f.activeSeverity() != "" {
		t.Errorf("expected cycle to wrap back to no filter, got %q", f.activeSeverity())
	}
}

func TestFilterState_MatchesEventBySeverity(t *testing.T) {
	f := newFilterState()
	f.cycleSeverity() // fatal
	ev := audit.Event{Severity: audit.Fatal, Kind: "integrity", Message: "manifest mismatch"}
	if !f.matchesEvent(ev) {
		t.Error("expected fatal event to match fatal filter")
	}

	other := audit.Event{Severity: audit.Info, Kind: "tool_call", Message: "ok"}
	if f.matchesEvent(other) {
		t.Error("expected info event to be excluded by fatal filter")
	}
}

func TestFilterState_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	f := newFilterState()
	f.search = "BASH"
	ev := audit.Event{Kind: "tool_call", Tool: "bash_exec", Message: "ran command"}
	if !f.matchesEvent(ev) {
		t.Error("expected search to match tool field case-insensitively")
	}

	noMatch := audit.Event{Kind: "tool_call", Tool: "file_read", Message: "read file"}
	if f.matchesEvent(noMatch) {
		t.Error("expected non-matching event to be excluded")
	}
}

func TestFilterEvents_PreservesOrder(t *testing.T) {
	f := newFilterState()
	events := []audit.Event{
		{Kind: "a", Message: "one"},
		{Kind: "b", Message: "two"},
		{Kind: "c", Message: "three"},
	}
	filtered := f.filterEvents(events)
	if len(filtered) != 3 || filtered[0].Kind != "a" || filtered[2].Kind != "c" {
		t.Errorf("expected order preserved, got %v", filtered)
	}
}
