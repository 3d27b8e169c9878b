package tools

import (
	"context"

	"github.com/nox-hq/sentinel/internal/sandbox"
)

// BashExecResult is the data payload a bash_exec call returns, successful or
// not — ExitCode/TimedOut/Truncated surface even when the process ran but
// exited non-zero, which is not itself a tool failure. WallTime/CPUTime
// report the resource cost actually incurred, in milliseconds, so a model
// deciding whether to retry a slow command has something to act on.
type BashExecResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exit_code"`
	TimedOut   bool   `json:"timed_out"`
	WallTimeMS int64  `json:"wall_time_ms"`
	CPUTimeMS  int64  `json:"cpu_time_ms"`
}

// BashExec is the entire §4.C contract: validate command through the
// four-phase pipeline, then execute the accepted argv directly — never
// through a shell.
func (t *Toolset) BashExec(ctx context.Context, command string) (BashExecResult, error) {
	validated, verr := t.Policy.Validate(command)
	if verr != nil {
		return BashExecResult{}, verr
	}

	execResult, execErr := t.Executor.Run(ctx, validated)
	if execErr != nil && execErr.Kind != sandbox.TimedOut {
		return BashExecResult{}, execErr
	}

	result := BashExecResult{
		Stdout:     execResult.Stdout,
		Stderr:     execResult.Stderr,
		ExitCode:   execResult.ExitCode,
		TimedOut:   execResult.TimedOut,
		WallTimeMS: execResult.WallTime.Milliseconds(),
		CPUTimeMS:  execResult.CPUTime.Milliseconds(),
	}
	if execErr != nil {
		return result, execErr
	}
	return result, nil
}
