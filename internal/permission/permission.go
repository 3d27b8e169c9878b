// Package permission implements the permission arbitrator: static per-tool
// allow/ask/deny classification, operator session overrides, and the
// session-wide skip-permissions promotion rule.
package permission

import (
	"context"
	"fmt"
)

// Decision is the static classification of a tool.
type Decision string

const (
	Allow Decision = "allow"
	Ask   Decision = "ask"
	Deny  Decision = "deny"
)

// ErrPermissionDenied is returned by Arbitrate when the decision is Deny, or
// when an Ask prompt is answered "no".
var ErrPermissionDenied = fmt.Errorf("permission_denied")

// Prompter surfaces an ask-class decision to the operator and blocks until
// answered. internal/tui implements this over a Bubble Tea prompt model.
type Prompter interface {
	Confirm(ctx context.Context, toolName string, args map[string]any) (bool, error)
}

// Policy holds the static tool classification, any session overrides the
// operator has granted, and the skip-permissions flag. It is the direct
// generalization of the teacher's plugin.Policy/plugin.ValidateManifest
// shape, retargeted from plugin-manifest safety bounds to tool-identity
// classification.
type Policy struct {
	classification  map[string]Decision
	overrides       map[string]Decision
	skipPermissions bool
	prompter        Prompter
}

// New builds a Policy from a static tool→Decision table.
func New(classification map[string]Decision, prompter Prompter) *Policy {
	return &Policy{
		classification: classification,
		overrides:      make(map[string]Decision),
		prompter:       prompter,
	}
}

// SetSkipPermissions enables --dangerously-skip-permissions for the rest of
// the session: every Ask promotes to Allow. Deny is never promoted.
func (p *Policy) SetSkipPermissions(skip bool) { p.skipPermissions = skip }

// Override records an operator session override for a tool, taking
// precedence over the static classification for the remainder of the
// session.
func (p *Policy) Override(toolName string, d Decision) {
	p.overrides[toolName] = d
}

// Violation describes a single permission-policy constraint failure, kept in
// the plural-accumulator shape the teacher's PolicyViolation used, even
// though arbitration here only ever has one relevant violation per call.
type Violation struct {
	Tool    string
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("permission violation on %s: %s", v.Tool, v.Message)
}

// Arbitrate resolves the effective decision for toolName and, for Ask,
// suspends on the configured Prompter until the operator answers.
func (p *Policy) Arbitrate(ctx context.Context, toolName string, args map[string]any) error {
	decision := p.effectiveDecision(toolName)

	switch decision {
	case Allow:
		return nil
	case Deny:
		return ErrPermissionDenied
	case Ask:
		if p.skipPermissions {
			return nil
		}
		if p.prompter == nil {
			return ErrPermissionDenied
		}
		ok, err := p.prompter.Confirm(ctx, toolName, args)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPermissionDenied
		}
		return nil
	default:
		// Unclassified tools fail closed.
		return ErrPermissionDenied
	}
}

func (p *Policy) effectiveDecision(toolName string) Decision {
	if d, ok := p.overrides[toolName]; ok {
		return d
	}
	if d, ok := p.classification[toolName]; ok {
		return d
	}
	return Deny
}
