package session

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nox-hq/sentinel/internal/audit"
	"github.com/nox-hq/sentinel/internal/permission"
	"github.com/nox-hq/sentinel/internal/protocol"
	"github.com/nox-hq/sentinel/internal/provenance"
	"github.com/nox-hq/sentinel/internal/sandbox"
	"github.com/nox-hq/sentinel/internal/tools"
)

// TurnContext is per-turn ephemeral state, owned exclusively by Dispatcher
// for the duration of one model turn (spec.md §3). It is rebuilt fresh by
// DispatchTurn on every call — nothing here survives past the turn it
// describes.
type TurnContext struct {
	Calls     []protocol.Call
	Tainted   bool
	NextIndex int
	BytesRead int64
}

// Dispatcher drives one model turn through extraction, arbitration,
// provenance gating, execution, and result framing. It is the wiring point
// named by SPEC_FULL.md §2's package-to-component map: the only thing in
// the tree that imports every one of internal/protocol, internal/tools,
// internal/permission, internal/provenance, and internal/audit at once.
type Dispatcher struct {
	Registry   *protocol.Registry
	Permission *permission.Policy
	Audit      *audit.Sink
	tracker    *provenance.Tracker
}

// NewDispatcher builds a Dispatcher over an already-frozen registry.
func NewDispatcher(registry *protocol.Registry, perm *permission.Policy, sink *audit.Sink) *Dispatcher {
	return &Dispatcher{
		Registry:   registry,
		Permission: perm,
		Audit:      sink,
		tracker:    provenance.New(),
	}
}

// DispatchTurn extracts every ::TOOL ...:: call from modelOutput, in order,
// and runs each one through arbitration, provenance gating, and its
// handler, returning the ordered [TOOL_RESULT] frames to reinject into the
// model's next prompt alongside the TurnContext describing what happened.
// It resets provenance taint at the start, per spec.md §3's "TurnContext" /
// provenance.Tracker.Reset contract: taint is per-turn, never carried over
// from the previous one.
func (d *Dispatcher) DispatchTurn(ctx context.Context, modelOutput string) (TurnContext, []string) {
	d.tracker.Reset()

	turn := TurnContext{}
	var frames []string

	calls, errs := protocol.ScanCalls(modelOutput)

	for _, parseErr := range errs {
		frames = append(frames, protocol.ErrResult(sandbox.ParseError).MarshalFrame("unknown"))
		d.record(audit.Warning, "parse_error", "", parseErr.Error())
	}

	for i, call := range calls {
		frame := d.dispatchOneRecovered(ctx, call, i, &turn)
		frames = append(frames, frame)
		turn.Calls = append(turn.Calls, call)
		turn.NextIndex++
	}

	turn.Tainted = d.tracker.Tainted()
	return turn, frames
}

// dispatchOneRecovered wraps dispatchOne with a panic recovery boundary, per
// spec.md §7's "dispatcher-boundary recovery of internal errors into
// internal_error": a handler panic is logged with full context via log/slog
// and converted to an internal_error frame rather than taking down the rest
// of the turn's calls.
func (d *Dispatcher) dispatchOneRecovered(ctx context.Context, call protocol.Call, index int, turn *TurnContext) (frame string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("tool handler panicked",
				"tool", call.Name,
				"call_index", index,
				"panic_value", r,
				"stack", string(debug.Stack()),
			)
			d.record(audit.Warning, "internal_error", call.Name, "handler panicked")
			frame = protocol.ErrResult(sandbox.InternalError).MarshalFrame(call.Name)
		}
	}()
	return d.dispatchOne(ctx, call, turn)
}

func (d *Dispatcher) dispatchOne(ctx context.Context, call protocol.Call, turn *TurnContext) string {
	tool, ok := d.Registry.Lookup(call.Name)
	if !ok {
		d.record(audit.Warning, "unknown_tool", call.Name, "model referenced an unregistered tool")
		return protocol.ErrResult(sandbox.ParseError).MarshalFrame(call.Name)
	}

	args := resolveArgs(call, tool.Signature.Positional)
	if err := d.Permission.Arbitrate(ctx, call.Name, anyArgs(args)); err != nil {
		d.record(audit.Denied, "permission_denied", call.Name, err.Error())
		return protocol.ErrResult(classifyErr(err)).MarshalFrame(call.Name)
	}

	if tool.Class == tools.Action {
		if err := d.tracker.CheckAction(); err != nil {
			d.record(audit.Denied, "provenance_blocked", call.Name, err.Error())
			return protocol.ErrResult(classifyErr(err)).MarshalFrame(call.Name)
		}
	}

	raw, err := tool.Handler(ctx, call)
	if err != nil {
		kind := classifyErr(err)
		d.record(audit.Warning, "tool_error", call.Name, err.Error())
		return protocol.ErrResult(kind).MarshalFrame(call.Name)
	}

	data := raw
	bytesRead := 0
	if tool.Class == tools.Read {
		// Fail closed: a read-class handler that did not wrap its result in
		// readOutcome is treated as untrusted, not trusted, so a future
		// handler added without updating this dispatcher taints the turn
		// rather than silently skipping provenance tracking.
		trusted := false
		if ro, ok := raw.(readOutcome); ok {
			data = ro.Data
			trusted = ro.Trusted
			bytesRead = ro.BytesRead
		}
		d.tracker.MarkRead(trusted)
	}
	turn.BytesRead += int64(bytesRead)

	d.record(audit.Info, "tool_call", call.Name, "ok")
	return protocol.OKResult(data, bytesRead).MarshalFrame(call.Name)
}

func (d *Dispatcher) record(sev audit.Severity, kind, tool, message string) {
	if d.Audit == nil {
		return
	}
	_ = d.Audit.Record(audit.Event{
		Timestamp: time.Now(),
		Severity:  sev,
		Kind:      kind,
		Tool:      tool,
		Message:   message,
	})
}
