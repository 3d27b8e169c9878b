package sandbox

import (
	"time"

	"github.com/nox-hq/sentinel/internal/pathguard"
)

// Policy is the immutable SandboxPolicy described by the runtime's data
// model. It is constructed once at boot by internal/config and carries no
// setters — the only way to change a running sentinel's sandbox behavior is
// to reboot with a new policy file.
type Policy struct {
	guard *pathguard.Guard

	commandAllowlist map[string]bool
	commandBlocklist map[string]bool
	blockedMeta      []string
	pathArgCommands  map[string]bool
	interpreters     map[string]bool
	inlineFlags      map[string]bool
	gitAllowed       map[string]bool
	gitBlocked       map[string]bool

	commandTimeout time.Duration
	maxOutputBytes int
	workDir        string
}

// Config is the plain-data shape a Policy is built from, loaded from YAML by
// internal/config. It mirrors spec.md §3's SandboxPolicy fields one-to-one.
type Config struct {
	AllowedDirs            []string
	ProtectedPaths         []string
	CommandAllowlist       []string
	CommandBlocklist       []string
	BlockedWriteExtensions []string
	BlockedMetacharacters  []string
	PathArgCommands        []string
	Interpreters           []string
	InterpreterInlineFlags []string
	GitAllowedSubcommands  []string
	GitBlockedSubcommands  []string
	CommandTimeout         time.Duration
	MaxOutputBytes         int
	WorkDir                string
}

// DefaultConfig returns the baseline policy named throughout spec.md §3/§4.C:
// a conservative command allowlist, the canonical shell metacharacter set,
// and git restricted to its non-mutating subcommands.
func DefaultConfig(allowedDirs []string) Config {
	return Config{
		AllowedDirs:      allowedDirs,
		CommandAllowlist: []string{"ls", "cat", "git", "python", "python3", "node", "pip", "grep", "find", "head", "tail", "cp", "mv", "mkdir", "touch", "wc", "sort", "uniq", "diff", "echo"},
		CommandBlocklist: []string{"env", "set", "printenv", "mklink", "npx", "curl", "wget", "nc", "ssh", "scp", "sudo", "chmod", "chown", "dd", "kill", "rm"},
		BlockedWriteExtensions: []string{
			".sh", ".bash", ".zsh", ".bat", ".cmd", ".ps1", ".exe", ".com", ".dll", ".so",
		},
		BlockedMetacharacters: []string{"&&", "||", ";", "|", "$(", "`", "${", ">>", ">", "<", "2>"},
		PathArgCommands:       []string{"ls", "cat", "type", "find", "grep", "cp", "mv", "head", "tail"},
		Interpreters:          []string{"python", "python3", "node", "ruby", "perl", "php"},
		InterpreterInlineFlags: []string{
			"-c", "-e", "--eval", "--exec", "-",
		},
		GitAllowedSubcommands: []string{"status", "diff", "log", "add", "commit", "branch"},
		GitBlockedSubcommands: []string{"push", "pull", "fetch", "clone", "remote"},
		CommandTimeout:        30 * time.Second,
		MaxOutputBytes:        1 << 20,
	}
}

// NewPolicy builds an immutable Policy from cfg.
func NewPolicy(cfg Config) (*Policy, error) {
	guard, err := pathguard.New(cfg.AllowedDirs, cfg.ProtectedPaths, cfg.BlockedWriteExtensions)
	if err != nil {
		return nil, err
	}

	p := &Policy{
		guard:            guard,
		commandAllowlist: toSet(cfg.CommandAllowlist),
		commandBlocklist: toSet(cfg.CommandBlocklist),
		blockedMeta:      append([]string(nil), cfg.BlockedMetacharacters...),
		pathArgCommands:  toSet(cfg.PathArgCommands),
		interpreters:     toSet(cfg.Interpreters),
		inlineFlags:      toSet(cfg.InterpreterInlineFlags),
		gitAllowed:       toSet(cfg.GitAllowedSubcommands),
		gitBlocked:       toSet(cfg.GitBlockedSubcommands),
		commandTimeout:   cfg.CommandTimeout,
		maxOutputBytes:   cfg.MaxOutputBytes,
		workDir:          cfg.WorkDir,
	}
	if p.commandTimeout == 0 {
		p.commandTimeout = 30 * time.Second
	}
	if p.maxOutputBytes == 0 {
		p.maxOutputBytes = 1 << 20
	}
	return p, nil
}

// Guard exposes the policy's path validator so tool handlers can route
// file-tool path arguments through the same confinement check bash_exec
// uses for its path-shaped arguments.
func (p *Policy) Guard() *pathguard.Guard { return p.guard }

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, i := range items {
		m[i] = true
	}
	return m
}
