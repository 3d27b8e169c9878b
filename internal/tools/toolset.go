package tools

import (
	"github.com/nox-hq/sentinel/internal/anchor"
	"github.com/nox-hq/sentinel/internal/pathguard"
	"github.com/nox-hq/sentinel/internal/sandbox"
)

// Toolset holds the shared dependencies every handler needs: the path
// validator, the command sandbox, and the trigger anchorer. It has no
// knowledge of the protocol or permission layers — session.Dispatcher wires
// its methods into protocol.Handler values after arbitration and provenance
// checks have already run.
type Toolset struct {
	Guard    *pathguard.Guard
	Policy   *sandbox.Policy
	Executor *sandbox.Executor
	Anchor   *anchor.Anchorer

	// MaxReadLines caps a single file_read call; 0 falls back to
	// defaultMaxReadLines (spec.md's MAX_READ_LINES).
	MaxReadLines int

	// TrustedPaths holds absolute paths an operator has explicitly trusted
	// via /add --trust; reads from these paths never taint the turn. This
	// is the Open Question resolution recorded in DESIGN.md.
	TrustedPaths map[string]bool
}

// New builds a Toolset from its four collaborators.
func New(guard *pathguard.Guard, policy *sandbox.Policy, executor *sandbox.Executor, anchorer *anchor.Anchorer) *Toolset {
	return &Toolset{
		Guard:        guard,
		Policy:       policy,
		Executor:     executor,
		Anchor:       anchorer,
		TrustedPaths: make(map[string]bool),
	}
}

// IsTrusted reports whether canonical path p has been explicitly trusted by
// the operator this session.
func (t *Toolset) IsTrusted(p string) bool {
	return t.TrustedPaths[p]
}

// Trust records p as a trusted path for the remainder of the session.
func (t *Toolset) Trust(p string) {
	t.TrustedPaths[p] = true
}
