package tools

import (
	"testing"

	"github.com/nox-hq/sentinel/internal/anchor"
	"github.com/nox-hq/sentinel/internal/pathguard"
	"github.com/nox-hq/sentinel/internal/sandbox"
)

func newTestToolset(t *testing.T, dir string) *Toolset {
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

	return New(guard, policy, executor, anchor.New(engine))
}
