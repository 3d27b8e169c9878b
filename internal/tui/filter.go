package tui

import (
	"strings"

	"github.com/nox-hq/sentinel/internal/audit"
)

// severityOrder is the cycle order for the Severity key binding, adapted
// from the teacher's severityOrder (Critical -> Info) to audit.Severity's
// four-level scale with "" (no filter) at the head of the cycle.
var severityOrder = []audit.Severity{"", audit.Fatal, audit.Denied, audit.Warning, audit.Info}

// filterState tracks the active severity filter and free-text search,
// adapted directly from the teacher's filterState.
type filterState struct {
	severityIdx int
	search      string
	searching   bool
}

func newFilterState() filterState {
	return filterState{severityIdx: 0}
}

func (f *filterState) cycleSeverity() {
	f.severityIdx = (f.severityIdx + 1) % len(severityOrder)
}

func (f filterState) activeSeverity() audit.Severity {
	return severityOrder[f.severityIdx]
}

// matchesEvent reports whether ev passes the active severity filter and
// free-text search, which is matched case-insensitively against the
// event's kind, tool, and message.
func (f filterState) matchesEvent(ev audit.Event) bool {
	if sev := f.activeSeverity(); sev != "" && ev.Severity != sev {
		return false
	}
	if f.search == "" {
		return true
	}
	needle := strings.ToLower(f.search)
	haystack := strings.ToLower(ev.Kind + " " + ev.Tool + " " + ev.Message)
	return strings.Contains(haystack, needle)
}

// filterEvents applies f to all, preserving order.
func (f filterState) filterEvents(all []audit.Event) []audit.Event {
	out := make([]audit.Event, 0, len(all))
	for _, ev := range all {
		if f.matchesEvent(ev) {
			out = append(out, ev)
		}
	}
	return out
}
