package tools

import (
	"context"
	"fmt"

	"github.com/nox-hq/sentinel/internal/sandbox"
)

// git_tools adapts the teacher's core/git subprocess idiom (runGit:
// exec.Command + cmd.Dir + CombinedOutput) to the git_* tool family. Unlike
// bash_exec, which reaches git through the generic command pipeline, these
// handlers call a fixed "git" argv directly — but only for the status, diff,
// log, branch, add and commit subcommands below. push/pull/fetch/clone/remote have no handler
// function at all here: the mutating surface is excluded structurally, not
// merely policy-blocked.
//
// spec.md §4.E names exactly git_commit and git_add as the action-class git
// subset; status/diff/log/branch are read-class and their output — commit
// messages, diff hunks, branch names — is always treated as untrusted
// origin (git output can never be on the operator's trusted-path list) and
// passed through the anchorer before it reaches the model.

// GitStatus runs "git status --short".
func (t *Toolset) GitStatus(ctx context.Context) (BashExecResult, error) {
	return t.runGitRead(ctx, "git_status", "status", "--short")
}

// GitDiff runs "git diff" against the working tree, or a specific ref range
// when base/head are non-empty.
func (t *Toolset) GitDiff(ctx context.Context, base, head string) (BashExecResult, error) {
	if base == "" {
		return t.runGitRead(ctx, "git_diff", "diff")
	}
	return t.runGitRead(ctx, "git_diff", "diff", fmt.Sprintf("%s...%s", base, head))
}

// GitLog runs "git log --oneline" capped at maxEntries.
func (t *Toolset) GitLog(ctx context.Context, maxEntries int) (BashExecResult, error) {
	if maxEntries <= 0 {
		maxEntries = 20
	}
	return t.runGitRead(ctx, "git_log", "log", "--oneline", fmt.Sprintf("-n%d", maxEntries))
}

// GitBranch lists local branches, or creates one when name is non-empty.
// Branch creation is a host mutation but spec.md §4.E does not name
// git_branch among the action-class git subset, so it stays read-class like
// the rest of the family — its output still taints the turn like any other
// git-sourced content.
func (t *Toolset) GitBranch(ctx context.Context, name string) (BashExecResult, error) {
	if name == "" {
		return t.runGitRead(ctx, "git_branch", "branch")
	}
	return t.runGitRead(ctx, "git_branch", "branch", name)
}

// GitAdd stages path. This is an action-class call: the dispatcher must run
// provenance.CheckAction before invoking it.
func (t *Toolset) GitAdd(ctx context.Context, path string) (BashExecResult, error) {
	return t.runGit(ctx, "add", "--", path)
}

// GitCommit commits the staged tree with message. Action-class, same as
// GitAdd.
func (t *Toolset) GitCommit(ctx context.Context, message string) (BashExecResult, error) {
	return t.runGit(ctx, "commit", "-m", message)
}

// runGitRead wraps runGit for the read-class git subcommands: it anchors
// stdout/stderr as untrusted content tagged with the tool name before
// returning, the same treatment FileRead and GrepSearch give their output.
func (t *Toolset) runGitRead(ctx context.Context, origin string, args ...string) (BashExecResult, error) {
	result, err := t.runGit(ctx, args...)
	result.Stdout = t.Anchor.Process(result.Stdout, origin)
	if result.Stderr != "" {
		result.Stderr = t.Anchor.Process(result.Stderr, origin)
	}
	return result, err
}

func (t *Toolset) runGit(ctx context.Context, args ...string) (BashExecResult, error) {
	argv := append([]string{"git"}, args...)
	validated := &sandbox.Validated{Argv: argv}

	execResult, execErr := t.Executor.Run(ctx, validated)
	if execErr != nil && execErr.Kind != sandbox.TimedOut {
		return BashExecResult{}, execErr
	}

	result := BashExecResult{
		Stdout:   execResult.Stdout,
		Stderr:   execResult.Stderr,
		ExitCode: execResult.ExitCode,
		TimedOut: execResult.TimedOut,
	}
	if execErr != nil {
		return result, execErr
	}
	return result, nil
}
