package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// passthroughEnvVars is the explicit allowlist spec.md §6 names for spawned
// commands: locale and home, so an interpreter or git doesn't misbehave
// without them. Everything else in the parent's environment is stripped.
var passthroughEnvVars = []string{"HOME", "LANG", "LC_ALL"}

// buildSandboxEnv resolves every command_allowlist entry to an absolute path
// via exec.LookPath and assembles the sanitized environment spec.md §4.C/§6
// requires: a PATH built only from the directories those binaries actually
// resolved in (never the parent's full PATH), plus the locale/home
// passthrough allowlist. A command that fails to resolve is silently
// skipped here but stays on the allowlist: invoking it passes phase 2 and
// then fails at spawn, since the executor cannot find the binary.
func buildSandboxEnv(commandAllowlist []string) ([]string, error) {
	dirSet := make(map[string]struct{})
	for _, cmd := range commandAllowlist {
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			continue
		}
		dirSet[filepath.Dir(resolved)] = struct{}{}
	}
	if len(dirSet) == 0 {
		return nil, fmt.Errorf("none of the %d allowlisted commands resolved on PATH", len(commandAllowlist))
	}

	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	env := []string{"PATH=" + strings.Join(dirs, string(os.PathListSeparator))}
	for _, name := range passthroughEnvVars {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			env = append(env, name+"="+v)
		}
	}
	return env, nil
}
