// Package tui provides an interactive terminal UI for watching a live
// sentinel session: the stream of audit events produced by the dispatcher,
// and any ask-class permission prompts raised along the way. It is the
// direct retargeting of the teacher's finding-inspector TUI (cli/tui) from
// "browse a finished scan's findings" to "watch a running session and
// answer its permission prompts".
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nox-hq/sentinel/internal/audit"
)

type viewState int

const (
	listView viewState = iota
	detailView
	promptView
)

// PromptRequest is sent into a running *tea.Program whenever the
// permission policy needs an operator decision on an ask-class tool call.
// Resp must be buffered by at least 1 so the UI goroutine sending the
// answer never blocks, even when the receiving goroutine (the dispatcher,
// blocked inside permission.Policy.Arbitrate) has already stopped waiting
// because its ctx was canceled.
type PromptRequest struct {
	Tool string
	Args map[string]any
	Resp chan<- bool
}

// appendEventMsg carries one newly recorded audit event into the running
// program, the live-feed analog of the teacher's static *detail.Store.
type appendEventMsg struct {
	event audit.Event
}

// AppendEventMsg wraps ev for delivery via (*tea.Program).Send.
func AppendEventMsg(ev audit.Event) tea.Msg {
	return appendEventMsg{event: ev}
}

// Model is the root Bubble Tea model for the session transcript TUI.
type Model struct {
	state    viewState
	prevView viewState

	events   []audit.Event
	filter   filterState
	filtered []audit.Event
	cursor   int

	pending *PromptRequest

	width, height int
}

// New creates a new TUI Model seeded with any already-recorded events
// (e.g. from audit.Sink.Recent on attach to a running session).
func New(seed []audit.Event) *Model {
	m := &Model{
		state:  listView,
		events: append([]audit.Event(nil), seed...),
		filter: newFilterState(),
		width:  80,
		height: 24,
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case appendEventMsg:
		m.events = append(m.events, msg.event)
		m.applyFilter()
		return m, nil

	case PromptRequest:
		m.prevView = m.state
		m.pending = &msg
		m.state = promptView
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.state {
	case promptView:
		return renderPrompt(m)
	case detailView:
		return renderDetail(m)
	default:
		return renderList(m)
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == promptView {
		return m.handlePromptKey(msg)
	}
	if m.filter.searching {
		return m.handleSearchKey(msg)
	}

	switch m.state {
	case listView:
		return m.handleListKey(msg)
	case detailView:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matchesBinding(msg, keys.Quit):
		return m, tea.Quit

	case matchesBinding(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case matchesBinding(msg, keys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case matchesBinding(msg, keys.Enter):
		if len(m.filtered) > 0 {
			m.state = detailView
		}

	case matchesBinding(msg, keys.Search):
		m.filter.searching = true

	case matchesBinding(msg, keys.Severity):
		m.filter.cycleSeverity()
		m.applyFilter()
	}
	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matchesBinding(msg, keys.Quit):
		return m, tea.Quit

	case matchesBinding(msg, keys.Back):
		m.state = listView

	case matchesBinding(msg, keys.NextItem):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}

	case matchesBinding(msg, keys.PrevItem):
		if m.cursor > 0 {
			m.cursor--
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filter.searching = false
		m.applyFilter()
	case "backspace":
		if len(m.filter.search) > 0 {
			m.filter.search = m.filter.search[:len(m.filter.search)-1]
			m.applyFilter()
		}
	default:
		if len(msg.String()) == 1 {
			m.filter.search += msg.String()
			m.applyFilter()
		}
	}
	return m, nil
}

// handlePromptKey resolves the pending ask-class prompt: y/enter approves,
// n/esc denies. The response is delivered on Resp before returning to
// whatever view was active before the prompt arrived.
func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := m.pending
	if req == nil {
		m.state = listView
		return m, nil
	}

	switch {
	case matchesBinding(msg, keys.Approve):
		req.Resp <- true
	case matchesBinding(msg, keys.Deny):
		req.Resp <- false
	default:
		return m, nil
	}

	m.pending = nil
	m.state = m.prevView
	return m, nil
}

func (m *Model) applyFilter() {
	m.filtered = m.filter.filterEvents(m.events)
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// matchesBinding checks if a key message matches a key binding.
func matchesBinding(msg tea.KeyMsg, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if msg.String() == k {
			return true
		}
	}
	return false
}
