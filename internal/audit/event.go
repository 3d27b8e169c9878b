// Package audit implements the append-only structured event sink every
// other component reports into: tool dispatch outcomes, permission
// decisions, provenance taint transitions, and integrity violations.
package audit

import "time"

// Severity classifies an Event for dashboard grouping and filtering.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Denied  Severity = "denied"
	Fatal   Severity = "fatal"
)

// Event is one append-only audit record. It is the direct generalization of
// the teacher's plugin.RuntimeViolation, retargeted from "a plugin breached
// its safety policy" to "something happened that the operator should be
// able to reconstruct after the fact" — most events are not violations at
// all (a routine allowed tool call is still recorded).
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	Severity  Severity          `json:"severity"`
	Kind      string            `json:"kind"`
	Tool      string            `json:"tool,omitempty"`
	Message   string            `json:"message"`
	Detail    map[string]string `json:"detail,omitempty"`
}
