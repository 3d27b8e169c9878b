// Package config loads the YAML configuration that boots a sentinel
// process: the sandbox policy, the model backend, the integrity manifest
// settings, the audit sink, and the static permission classification table.
// The loading shape — a root struct of nested, yaml-tagged settings structs
// read with gopkg.in/yaml.v3 — is the teacher's core.LoadScanConfig pattern,
// retargeted from .nox.yaml's scan/output/policy sections to sentinel's
// sandbox/model/integrity/audit/permission sections.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nox-hq/sentinel/internal/permission"
	"github.com/nox-hq/sentinel/internal/sandbox"
)

// SandboxSettings mirrors sandbox.Config field-for-field, with durations
// expressed as parseable strings since YAML has no native duration type.
type SandboxSettings struct {
	AllowedDirs            []string `yaml:"allowed_dirs"`
	ProtectedPaths         []string `yaml:"protected_paths"`
	CommandAllowlist       []string `yaml:"command_allowlist"`
	CommandBlocklist       []string `yaml:"command_blocklist"`
	BlockedWriteExtensions []string `yaml:"blocked_write_extensions"`
	BlockedMetacharacters  []string `yaml:"blocked_metacharacters"`
	PathArgCommands        []string `yaml:"path_arg_commands"`
	Interpreters           []string `yaml:"interpreters"`
	InterpreterInlineFlags []string `yaml:"interpreter_inline_flags"`
	GitAllowedSubcommands  []string `yaml:"git_allowed_subcommands"`
	GitBlockedSubcommands  []string `yaml:"git_blocked_subcommands"`
	CommandTimeout         string   `yaml:"command_timeout"`
	MaxOutputBytes         int      `yaml:"max_output_bytes"`
	WorkDir                string   `yaml:"work_dir"`
}

// ModelSettings configures the chat-completion backend internal/model
// dials. APIKeyEnv names the environment variable holding the credential —
// the key itself is never written to the config file or the audit log.
type ModelSettings struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	APIKeyEnv  string `yaml:"api_key_env"`
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries *int   `yaml:"max_retries"`
}

// IntegritySettings configures manifest generation/verification and the
// fsnotify tamper watcher.
type IntegritySettings struct {
	ManifestPath  string   `yaml:"manifest_path"`
	PassphraseEnv string   `yaml:"passphrase_env"`
	TrustRoots    []string `yaml:"trust_roots"`
	WatchDebounce string   `yaml:"watch_debounce"`
}

// AuditSettings configures the append-only event sink and its dashboard.
type AuditSettings struct {
	LogPath       string `yaml:"log_path"`
	MaxRecent     int    `yaml:"max_recent"`
	DashboardPath string `yaml:"dashboard_path"`
}

// PermissionSettings configures the static tool classification table and
// the default skip-permissions posture. Classification values must be one
// of "allow", "ask", "deny".
type PermissionSettings struct {
	Classification  map[string]string `yaml:"classification"`
	SkipPermissions bool              `yaml:"skip_permissions"`
}

// Config is the root of a sentinel policy file.
type Config struct {
	Sandbox      SandboxSettings    `yaml:"sandbox"`
	Model        ModelSettings      `yaml:"model"`
	Integrity    IntegritySettings  `yaml:"integrity"`
	Audit        AuditSettings      `yaml:"audit"`
	Permission   PermissionSettings `yaml:"permission"`
	MaxReadLines int                `yaml:"max_read_lines"`
}

// Load reads and parses a sentinel policy file. Unlike the teacher's
// LoadScanConfig, a missing file is a hard error here rather than a
// zero-value fallback: SandboxPolicy is load-bearing security
// configuration, and a silently-empty policy would boot with no allowed
// directories and no command allowlist, which is a fail-open posture this
// runtime must never default to.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Sandbox.AllowedDirs) == 0 {
		return nil, fmt.Errorf("config %s: sandbox.allowed_dirs must list at least one directory", path)
	}
	return &cfg, nil
}

// SandboxConfig translates the YAML settings into sandbox.Config, layering
// the loaded values over sandbox.DefaultConfig so a policy file only needs
// to specify the fields it wants to override from the conservative
// defaults.
func (c *Config) SandboxConfig() (sandbox.Config, error) {
	base := sandbox.DefaultConfig(c.Sandbox.AllowedDirs)

	if len(c.Sandbox.ProtectedPaths) > 0 {
		base.ProtectedPaths = c.Sandbox.ProtectedPaths
	}
	if len(c.Sandbox.CommandAllowlist) > 0 {
		base.CommandAllowlist = c.Sandbox.CommandAllowlist
	}
	if len(c.Sandbox.CommandBlocklist) > 0 {
		base.CommandBlocklist = c.Sandbox.CommandBlocklist
	}
	if len(c.Sandbox.BlockedWriteExtensions) > 0 {
		base.BlockedWriteExtensions = c.Sandbox.BlockedWriteExtensions
	}
	if len(c.Sandbox.BlockedMetacharacters) > 0 {
		base.BlockedMetacharacters = c.Sandbox.BlockedMetacharacters
	}
	if len(c.Sandbox.PathArgCommands) > 0 {
		base.PathArgCommands = c.Sandbox.PathArgCommands
	}
	if len(c.Sandbox.Interpreters) > 0 {
		base.Interpreters = c.Sandbox.Interpreters
	}
	if len(c.Sandbox.InterpreterInlineFlags) > 0 {
		base.InterpreterInlineFlags = c.Sandbox.InterpreterInlineFlags
	}
	if len(c.Sandbox.GitAllowedSubcommands) > 0 {
		base.GitAllowedSubcommands = c.Sandbox.GitAllowedSubcommands
	}
	if len(c.Sandbox.GitBlockedSubcommands) > 0 {
		base.GitBlockedSubcommands = c.Sandbox.GitBlockedSubcommands
	}
	if c.Sandbox.WorkDir != "" {
		base.WorkDir = c.Sandbox.WorkDir
	}
	if c.Sandbox.MaxOutputBytes > 0 {
		base.MaxOutputBytes = c.Sandbox.MaxOutputBytes
	}
	if c.Sandbox.CommandTimeout != "" {
		d, err := time.ParseDuration(c.Sandbox.CommandTimeout)
		if err != nil {
			return sandbox.Config{}, fmt.Errorf("sandbox.command_timeout: %w", err)
		}
		base.CommandTimeout = d
	}
	return base, nil
}

// PermissionClassification translates the string-keyed YAML table into the
// permission.Decision map permission.New expects, rejecting any value outside
// {allow, ask, deny} so a typo in the config fails closed at boot rather
// than silently falling through to an unclassified-tool deny at call time.
func (c *Config) PermissionClassification() (map[string]permission.Decision, error) {
	out := make(map[string]permission.Decision, len(c.Permission.Classification))
	for tool, raw := range c.Permission.Classification {
		d := permission.Decision(raw)
		switch d {
		case permission.Allow, permission.Ask, permission.Deny:
			out[tool] = d
		default:
			return nil, fmt.Errorf("permission.classification[%s]: invalid decision %q", tool, raw)
		}
	}
	return out, nil
}

// WatchDebounce parses integrity.watch_debounce, defaulting to 500ms when
// unset.
func (c *Config) WatchDebounce() (time.Duration, error) {
	if c.Integrity.WatchDebounce == "" {
		return 500 * time.Millisecond, nil
	}
	return time.ParseDuration(c.Integrity.WatchDebounce)
}

// ModelTimeout parses model.timeout, defaulting to 60s when unset.
func (c *Config) ModelTimeout() (time.Duration, error) {
	if c.Model.Timeout == "" {
		return 60 * time.Second, nil
	}
	return time.ParseDuration(c.Model.Timeout)
}

// APIKey reads the model API key from the environment variable named by
// model.api_key_env, defaulting to OPENAI_API_KEY the way the teacher's
// ExplainSettings.APIKeyEnv defaults explain's key lookup.
func (c *Config) APIKey() (string, error) {
	envVar := c.Model.APIKeyEnv
	if envVar == "" {
		envVar = "OPENAI_API_KEY"
	}
	key := os.Getenv(envVar)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", envVar)
	}
	return key, nil
}

// Passphrase reads the manifest passphrase from the environment variable
// named by integrity.passphrase_env.
func (c *Config) Passphrase() (string, error) {
	envVar := c.Integrity.PassphraseEnv
	if envVar == "" {
		return "", fmt.Errorf("integrity.passphrase_env is not set")
	}
	phrase := os.Getenv(envVar)
	if phrase == "" {
		return "", fmt.Errorf("environment variable %s is not set", envVar)
	}
	return phrase, nil
}
