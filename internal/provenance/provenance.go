// Package provenance implements the per-turn taint state machine that closes
// "read-then-exfiltrate-in-same-breath": once any read-class tool call
// consumes untrusted content within a model turn, no action-class tool call
// may execute for the remainder of that turn.
package provenance

import "fmt"

// ErrProvenanceBlocked is returned by CheckAction when the turn is tainted.
var ErrProvenanceBlocked = fmt.Errorf("provenance_blocked")

// Tracker is owned by a session.Dispatcher, which resets it at the start of
// every model turn — it is deliberately not a package-level singleton, per
// spec.md §9's "no ambient singleton" design note.
type Tracker struct {
	tainted bool
}

// New returns a Tracker with taint cleared, as at the start of every turn.
func New() *Tracker {
	return &Tracker{}
}

// MarkRead records the completion of a read-class tool call. trusted should
// be true only when every byte the call returned came from the operator's
// explicit trusted-path set; all git output and network fetches are always
// untrusted. Once tainted, a Tracker never un-taints within the same turn.
func (t *Tracker) MarkRead(trusted bool) {
	if !trusted {
		t.tainted = true
	}
}

// CheckAction must be called before executing any action-class tool. It
// returns ErrProvenanceBlocked if the turn is tainted and does not mutate
// state — the action still does not execute, but checking twice is safe.
func (t *Tracker) CheckAction() error {
	if t.tainted {
		return ErrProvenanceBlocked
	}
	return nil
}

// Tainted reports the tracker's current taint state, for audit/UI display.
func (t *Tracker) Tainted() bool { return t.tainted }

// Reset clears taint. session.Dispatcher calls it at the start of every
// DispatchTurn, i.e. once per model turn — the flag is per-turn, not
// per-session.
func (t *Tracker) Reset() { t.tainted = false }
