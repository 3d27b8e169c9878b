package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nox-hq/sentinel/internal/permission"
	"github.com/nox-hq/sentinel/internal/protocol"
	"github.com/nox-hq/sentinel/internal/tools"
)

func TestDispatchTurn_FileWriteThenFileReadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	d := newTestDispatcher(t, dir, allowAll(), nil)

	turn, frames := d.DispatchTurn(context.Background(), `::TOOL file_write(path="out.txt", content="hello world")::`)
	if turn.Tainted {
		t.Fatal("file_write should not taint the turn")
	}
	if len(frames) != 1 || !strings.Contains(frames[0], `"ok":true`) {
		t.Fatalf("expected successful file_write frame, got %v", frames)
	}

	_, frames = d.DispatchTurn(context.Background(), `::TOOL file_read(path="out.txt")::`)
	if len(frames) != 1 {
		t.Fatalf("expected one frame, got %d", len(frames))
	}
	if !strings.Contains(frames[0], "hello world") {
		t.Fatalf("expected round-tripped content, got %s", frames[0])
	}
}

func TestDispatchTurn_ProvenanceGatingScenario(t *testing.T) {
	// spec.md §8 scenario 5: a read of an untrusted file taints the turn;
	// a subsequent action call in the same turn is blocked. A new turn
	// resets taint and the same action succeeds.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := newTestDispatcher(t, dir, allowAll(), nil)

	_, frames := d.DispatchTurn(context.Background(), `::TOOL file_read(path="notes.txt")::
::TOOL bash_exec(command="ls")::`)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %v", len(frames), frames)
	}
	if !strings.Contains(frames[0], `"ok":true`) {
		t.Fatalf("expected file_read to succeed, got %s", frames[0])
	}
	if !strings.Contains(frames[1], "provenance_blocked") {
		t.Fatalf("expected bash_exec blocked by provenance, got %s", frames[1])
	}

	_, frames = d.DispatchTurn(context.Background(), `::TOOL bash_exec(command="ls")::`)
	if !strings.Contains(frames[0], `"ok":true`) {
		t.Fatalf("expected bash_exec to succeed after new turn reset taint, got %s", frames[0])
	}
}

func TestDispatchTurn_UnknownToolYieldsParseError(t *testing.T) {
	dir := t.TempDir()
	d := newTestDispatcher(t, dir, allowAll(), nil)

	_, frames := d.DispatchTurn(context.Background(), `::TOOL nonexistent_tool(x="1")::`)
	if len(frames) != 1 || !strings.Contains(frames[0], "parse_error") {
		t.Fatalf("expected parse_error frame, got %v", frames)
	}
}

func TestDispatchTurn_DeniedToolNeverExecutes(t *testing.T) {
	dir := t.TempDir()
	classification := allowAll()
	classification["bash_exec"] = permission.Deny
	d := newTestDispatcher(t, dir, classification, nil)

	_, frames := d.DispatchTurn(context.Background(), `::TOOL bash_exec(command="ls")::`)
	if !strings.Contains(frames[0], "permission_denied") {
		t.Fatalf("expected permission_denied frame, got %s", frames[0])
	}
}

type stubPrompter struct {
	approve bool
}

func (s *stubPrompter) Confirm(_ context.Context, _ string, _ map[string]any) (bool, error) {
	return s.approve, nil
}

func TestDispatchTurn_AskPromptsOperatorBeforeRunning(t *testing.T) {
	dir := t.TempDir()
	classification := allowAll()
	classification["bash_exec"] = permission.Ask
	d := newTestDispatcher(t, dir, classification, &stubPrompter{approve: true})

	_, frames := d.DispatchTurn(context.Background(), `::TOOL bash_exec(command="ls")::`)
	if !strings.Contains(frames[0], `"ok":true`) {
		t.Fatalf("expected approved ask-class call to run, got %s", frames[0])
	}
}

func TestDispatchTurn_MetacharacterRejectionScenario(t *testing.T) {
	// spec.md §8 scenario 1.
	dir := t.TempDir()
	d := newTestDispatcher(t, dir, allowAll(), nil)

	_, frames := d.DispatchTurn(context.Background(), `::TOOL bash_exec(command="git status && echo hacked")::`)
	if !strings.Contains(frames[0], "blocked_metacharacter") {
		t.Fatalf("expected blocked_metacharacter, got %s", frames[0])
	}
}

func TestDispatchTurn_HandlerPanicRecoversToInternalError(t *testing.T) {
	dir := t.TempDir()
	d := newTestDispatcher(t, dir, allowAll(), nil)

	panicking := protocol.Tool{
		Name:  "panics",
		Class: tools.Read,
		Handler: func(context.Context, protocol.Call) (any, error) {
			panic("boom")
		},
	}
	d.Registry = protocol.NewRegistry()
	d.Registry.Register(panicking)
	d.Registry.Freeze()

	_, frames := d.DispatchTurn(context.Background(), `::TOOL panics()::`)
	if len(frames) != 1 || !strings.Contains(frames[0], "internal_error") {
		t.Fatalf("expected internal_error frame after panic, got %v", frames)
	}
}

func TestDispatchTurn_MultipleCallsPreserveOrder(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("A"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("B"), 0o644); err != nil {
		t.Fatal(err)
	}
	d := newTestDispatcher(t, dir, allowAll(), nil)

	turn, frames := d.DispatchTurn(context.Background(), `::TOOL file_read(path="a.txt")::
::TOOL file_read(path="b.txt")::`)
	if len(frames) != 2 || turn.NextIndex != 2 {
		t.Fatalf("expected 2 ordered calls, got %d frames, NextIndex=%d", len(frames), turn.NextIndex)
	}
	if !strings.Contains(frames[0], "A") || !strings.Contains(frames[1], "B") {
		t.Fatalf("expected calls dispatched in emission order, got %v", frames)
	}
}
