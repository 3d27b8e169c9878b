package sandbox

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"golang.org/x/time/rate"
)

// ExecResult is the outcome of a spawned, validated command.
type ExecResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	Truncated  bool
	TimedOut   bool
	WallTime   time.Duration
	CPUTime    time.Duration
}

// Executor spawns validated argv vectors as direct child processes — never
// through a shell — with a bounded timeout, a bounded output buffer, and a
// sanitized environment. The rate of spawns across a session is additionally
// bounded by a token bucket so a single turn cannot fork-bomb the host even
// though every individual command passed phase 1–3 validation.
type Executor struct {
	policy  *Policy
	limiter *rate.Limiter
	env     []string
}

// NewExecutor builds an Executor bound to policy. spawnsPerMinute bounds
// the command spawn rate (with a burst of the same size); 0 disables the
// limiter.
func NewExecutor(policy *Policy, spawnsPerMinute int, env []string) *Executor {
	e := &Executor{policy: policy, env: env}
	if spawnsPerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(float64(spawnsPerMinute)/60.0), spawnsPerMinute)
	}
	return e
}

// Run executes v.Argv as a direct process spawn. The caller's ctx is
// combined with the policy's configured wall-clock timeout; CPU time and
// wall time actually consumed are reported on the result regardless of
// outcome.
func (e *Executor) Run(ctx context.Context, v *Validated) (*ExecResult, *Error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, newErr(TimedOut, "rate limit wait: "+err.Error())
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, e.policy.commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, v.Argv[0], v.Argv[1:]...)
	cmd.Dir = e.policy.workDir
	cmd.Env = e.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &boundedWriter{buf: &stdout, limit: e.policy.maxOutputBytes}
	cmd.Stderr = &boundedWriter{buf: &stderr, limit: e.policy.maxOutputBytes}

	start := time.Now()
	runErr := cmd.Run()
	wall := time.Since(start)

	result := &ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		WallTime: wall,
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
		result.CPUTime = cmd.ProcessState.UserTime() + cmd.ProcessState.SystemTime()
	}

	truncatedOut := boundedTruncated(&stdout, e.policy.maxOutputBytes)
	truncatedErr := boundedTruncated(&stderr, e.policy.maxOutputBytes)
	result.Truncated = truncatedOut || truncatedErr

	if timeoutCtx.Err() == context.DeadlineExceeded {
		result.TimedOut = true
		return result, newErr(TimedOut, "command exceeded configured timeout")
	}
	if runErr != nil {
		if _, ok := runErr.(*exec.ExitError); !ok {
			return result, newErr(InternalError, runErr.Error())
		}
	}
	return result, nil
}

// boundedWriter truncates writes past limit bytes rather than growing
// without bound; the executor never backpressures a child process, it only
// stops recording its output.
type boundedWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	if w.buf.Len() >= w.limit {
		return len(p), nil
	}
	remaining := w.limit - w.buf.Len()
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
	} else {
		w.buf.Write(p)
	}
	return len(p), nil
}

func boundedTruncated(buf *bytes.Buffer, limit int) bool {
	return buf.Len() >= limit
}
