// Package session implements the turn dispatcher: the component that
// drives one model turn through tool-call extraction, permission
// arbitration, provenance gating, handler invocation, and result framing,
// wiring components A-J (internal/normalize through internal/audit)
// together the way the teacher's core.RunScan wires discovery and the
// analyzer set into one aggregate ScanResult — retargeted from "scan a
// directory once" to "dispatch one turn's tool calls, repeatedly, for the
// life of a session".
package session

import (
	"context"

	"github.com/nox-hq/sentinel/internal/protocol"
	"github.com/nox-hq/sentinel/internal/tools"
)

// readOutcome wraps the data a read-class handler returns together with the
// trust state and byte count the dispatcher needs but the model's
// [TOOL_RESULT] frame does not: Data is exactly what the frame serializes.
type readOutcome struct {
	Data      any
	Trusted   bool
	BytesRead int
}

// BuildRegistry registers every tool in ts against a fresh Registry and
// freezes it. The dispatcher calls this once at boot; no Register call is
// ever issued again for the lifetime of the process.
func BuildRegistry(ts *tools.Toolset) *protocol.Registry {
	r := protocol.NewRegistry()

	r.Register(protocol.Tool{
		Name:      "file_read",
		Class:     tools.Read,
		Signature: protocol.Signature{Positional: []string{"path", "offset", "limit"}},
		Handler: func(_ context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"path", "offset", "limit"})
			result, trusted, err := ts.FileRead(argStr(args, "path", ""), argInt(args, "offset", 0), argInt(args, "limit", 0))
			if err != nil {
				return nil, err
			}
			return readOutcome{Data: result, Trusted: trusted, BytesRead: result.BytesRead}, nil
		},
	})

	r.Register(protocol.Tool{
		Name:      "file_write",
		Class:     tools.Action,
		Signature: protocol.Signature{Positional: []string{"path", "content"}},
		Handler: func(_ context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"path", "content"})
			return ts.FileWrite(argStr(args, "path", ""), argStr(args, "content", ""))
		},
	})

	r.Register(protocol.Tool{
		Name:      "file_edit",
		Class:     tools.Action,
		Signature: protocol.Signature{Positional: []string{"path", "find", "replace", "occurrence"}},
		Handler: func(_ context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"path", "find", "replace", "occurrence"})
			return ts.FileEdit(argStr(args, "path", ""), argStr(args, "find", ""), argStr(args, "replace", ""), argInt(args, "occurrence", 0))
		},
	})

	r.Register(protocol.Tool{
		Name:      "glob_search",
		Class:     tools.Read,
		Signature: protocol.Signature{Positional: []string{"pattern"}},
		Handler: func(_ context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"pattern"})
			matches, err := ts.GlobSearch(argStr(args, "pattern", ""))
			if err != nil {
				return nil, err
			}
			// glob_search returns sandbox-relative paths only, never file
			// content, so there is nothing here for the anchorer to act on
			// and the result is always trusted: a path is not untrusted
			// prose the way a file's contents or a grep hit's line is.
			return readOutcome{Data: matches, Trusted: true}, nil
		},
	})

	r.Register(protocol.Tool{
		Name:      "grep_search",
		Class:     tools.Read,
		Signature: protocol.Signature{Positional: []string{"pattern", "path"}},
		Handler: func(_ context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"pattern", "path"})
			result, trusted, err := ts.GrepSearch(argStr(args, "pattern", ""), argStr(args, "path", ""))
			if err != nil {
				return nil, err
			}
			return readOutcome{Data: result, Trusted: trusted}, nil
		},
	})

	r.Register(protocol.Tool{
		Name:      "bash_exec",
		Class:     tools.Action,
		Signature: protocol.Signature{Positional: []string{"command"}},
		Handler: func(ctx context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"command"})
			return ts.BashExec(ctx, argStr(args, "command", ""))
		},
	})

	r.Register(protocol.Tool{
		Name:      "git_status",
		Class:     tools.Read,
		Signature: protocol.Signature{},
		Handler: func(ctx context.Context, _ protocol.Call) (any, error) {
			result, err := ts.GitStatus(ctx)
			if err != nil {
				return nil, err
			}
			// Git output is always untrusted origin (spec.md §4.E); trust
			// is never computed per call the way file_read/grep_search do.
			return readOutcome{Data: result}, nil
		},
	})

	r.Register(protocol.Tool{
		Name:      "git_diff",
		Class:     tools.Read,
		Signature: protocol.Signature{Positional: []string{"base", "head"}},
		Handler: func(ctx context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"base", "head"})
			result, err := ts.GitDiff(ctx, argStr(args, "base", ""), argStr(args, "head", ""))
			if err != nil {
				return nil, err
			}
			return readOutcome{Data: result}, nil
		},
	})

	r.Register(protocol.Tool{
		Name:      "git_log",
		Class:     tools.Read,
		Signature: protocol.Signature{Positional: []string{"max_entries"}},
		Handler: func(ctx context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"max_entries"})
			result, err := ts.GitLog(ctx, argInt(args, "max_entries", 0))
			if err != nil {
				return nil, err
			}
			return readOutcome{Data: result}, nil
		},
	})

	r.Register(protocol.Tool{
		Name:      "git_branch",
		Class:     tools.Read,
		Signature: protocol.Signature{Positional: []string{"name"}},
		Handler: func(ctx context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"name"})
			result, err := ts.GitBranch(ctx, argStr(args, "name", ""))
			if err != nil {
				return nil, err
			}
			return readOutcome{Data: result}, nil
		},
	})

	r.Register(protocol.Tool{
		Name:      "git_add",
		Class:     tools.Action,
		Signature: protocol.Signature{Positional: []string{"path"}},
		Handler: func(ctx context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"path"})
			return ts.GitAdd(ctx, argStr(args, "path", ""))
		},
	})

	r.Register(protocol.Tool{
		Name:      "git_commit",
		Class:     tools.Action,
		Signature: protocol.Signature{Positional: []string{"message"}},
		Handler: func(ctx context.Context, call protocol.Call) (any, error) {
			args := resolveArgs(call, []string{"message"})
			return ts.GitCommit(ctx, argStr(args, "message", ""))
		},
	})

	r.Freeze()
	return r
}
