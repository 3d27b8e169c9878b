package session

import (
	"testing"

	"github.com/nox-hq/sentinel/internal/anchor"
	"github.com/nox-hq/sentinel/internal/pathguard"
	"github.com/nox-hq/sentinel/internal/permission"
	"github.com/nox-hq/sentinel/internal/sandbox"
	"github.com/nox-hq/sentinel/internal/tools"
)

func newTestDispatcher(t *testing.T, dir string, classification map[string]permission.Decision, prompter permission.Prompter) *Dispatcher {
	t.Helper()

	guard, err := pathguard.New([]string{dir}, nil, []string{".sh", ".bash"})
	if err != nil {
		t.Fatalf("pathguard.New: %v", err)
	}

	cfg := sandbox.DefaultConfig([]string{dir})
	cfg.WorkDir = dir
	policy, err := sandbox.NewPolicy(cfg)
	if err != nil {
		t.Fatalf("sandbox.NewPolicy: %v", err)
	}

	executor := sandbox.NewExecutor(policy, 0, nil)

	engine, err := anchor.NewEngine(anchor.DefaultRules())
	if err != nil {
		t.Fatalf("anchor.NewEngine: %v", err)
	}

	ts := tools.New(guard, policy, executor, anchor.New(engine))
	registry := BuildRegistry(ts)
	perm := permission.New(classification, prompter)

	return NewDispatcher(registry, perm, nil)
}

func allowAll() map[string]permission.Decision {
	return map[string]permission.Decision{
		"file_read":   permission.Allow,
		"file_write":  permission.Allow,
		"file_edit":   permission.Allow,
		"glob_search": permission.Allow,
		"grep_search": permission.Allow,
		"bash_exec":   permission.Allow,
		"git_status":  permission.Allow,
		"git_diff":    permission.Allow,
		"git_log":     permission.Allow,
		"git_branch":  permission.Allow,
		"git_add":     permission.Allow,
		"git_commit":  permission.Allow,
	}
}
