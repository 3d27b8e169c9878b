package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nox-hq/sentinel/internal/audit"
)

func testEvents() []audit.Event {
	return []audit.Event{
		{Timestamp: time.Unix(1, 0), Severity: audit.Info, Kind: "tool_call", Tool: "file_read", Message: "ok"},
		{Timestamp: time.Unix(2, 0), Severity: audit.Denied, Kind: "permission_denied", Tool: "bash_exec", Message: "denied by policy"},
		{Timestamp: time.Unix(3, 0), Severity: audit.Warning, Kind: "tool_error", Tool: "file_write", Message: "write failed"},
	}
}

func TestNewModel(t *testing.T) {
	m := New(testEvents())

	if m.state != listView {
		t.Errorf("initial state = %d, want listView (0)", m.state)
	}
	if len(m.filtered) != 3 {
		t.Errorf("filtered count = %d, want 3", len(m.filtered))
	}
}

func TestModelNavigateDown(t *testing.T) {
	m := New(testEvents())

	if m.cursor != 0 {
		t.Fatalf("initial cursor = %d, want 0", m.cursor)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}
}

func TestModelEnterDetail(t *testing.T) {
	m := New(testEvents())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != detailView {
		t.Errorf("state after enter = %d, want detailView (1)", m.state)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if m.state != listView {
		t.Errorf("state after esc = %d, want listView (0)", m.state)
	}
}

func TestModelSeverityFilter(t *testing.T) {
	m := New(testEvents())

	if len(m.filtered) != 3 {
		t.Fatalf("initial filtered = %d, want 3", len(m.filtered))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.filter.activeSeverity() != audit.Fatal {
		t.Errorf("after first s: severity = %q, want fatal", m.filter.activeSeverity())
	}
	if len(m.filtered) != 0 {
		t.Errorf("fatal filtered = %d, want 0", len(m.filtered))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.filter.activeSeverity() != audit.Denied {
		t.Errorf("after second s: severity = %q, want denied", m.filter.activeSeverity())
	}
	if len(m.filtered) != 1 {
		t.Errorf("denied filtered = %d, want 1", len(m.filtered))
	}
}

func TestModelSearch(t *testing.T) {
	m := New(testEvents())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.filter.searching {
		t.Fatal("expected searching = true after /")
	}

	for _, r := range "bash" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filter.searching {
		t.Error("expected searching = false after enter")
	}
	if len(m.filtered) != 1 {
		t.Errorf("search filtered = %d, want 1", len(m.filtered))
	}
}

func TestModelAppendEventMsg(t *testing.T) {
	m := New(nil)

	m.Update(appendEventMsg{event: audit.Event{Kind: "tool_call", Message: "hi"}})
	if len(m.events) != 1 {
		t.Fatalf("expected 1 event after append, got %d", len(m.events))
	}
	if len(m.filtered) != 1 {
		t.Errorf("expected filtered to include new event, got %d", len(m.filtered))
	}
}

func TestModelPromptRequestSwitchesView(t *testing.T) {
	m := New(testEvents())
	resp := make(chan bool, 1)

	m.Update(PromptRequest{Tool: "bash_exec", Args: map[string]any{"command": "ls"}, Resp: resp})
	if m.state != promptView {
		t.Fatalf("state after PromptRequest = %d, want promptView", m.state)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	select {
	case ok := <-resp:
		if !ok {
			t.Error("expected approval, got deny")
		}
	default:
		t.Fatal("expected a response on the channel")
	}
	if m.state != listView {
		t.Errorf("state after approval = %d, want listView", m.state)
	}
	if m.pending != nil {
		t.Error("expected pending to be cleared after answering")
	}
}

func TestModelPromptRequestDeny(t *testing.T) {
	m := New(testEvents())
	resp := make(chan bool, 1)

	m.Update(PromptRequest{Tool: "bash_exec", Resp: resp})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})

	select {
	case ok := <-resp:
		if ok {
			t.Error("expected denial, got approval")
		}
	default:
		t.Fatal("expected a response on the channel")
	}
}

func TestModelViewRendersWithoutPanic(t *testing.T) {
	m := New(testEvents())
	if m.View() == "" {
		t.Error("View() returned empty string")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.View() == "" {
		t.Error("detail View() returned empty string")
	}

	resp := make(chan bool, 1)
	m.Update(PromptRequest{Tool: "bash_exec", Resp: resp})
	if m.View() == "" {
		t.Error("prompt View() returned empty string")
	}
}
