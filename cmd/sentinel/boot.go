package main

import (
	"fmt"
	"os"
	"time"

	"github.com/nox-hq/sentinel/internal/anchor"
	"github.com/nox-hq/sentinel/internal/audit"
	"github.com/nox-hq/sentinel/internal/config"
	"github.com/nox-hq/sentinel/internal/integrity"
	"github.com/nox-hq/sentinel/internal/model"
	"github.com/nox-hq/sentinel/internal/pathguard"
	"github.com/nox-hq/sentinel/internal/permission"
	"github.com/nox-hq/sentinel/internal/protocol"
	"github.com/nox-hq/sentinel/internal/sandbox"
	"github.com/nox-hq/sentinel/internal/session"
	"github.com/nox-hq/sentinel/internal/tools"
)

// bootFlags is the parsed form of the CLI's boot flag set, passed down into
// boot() so it stays a pure function of (config file, flags) rather than
// reaching into package-level flag variables.
type bootFlags struct {
	configPath       string
	generateManifest bool
	verifyOnly       bool
	expectedModel    string
	strictSandbox    bool
	pluginsDir       string
	skipPermissions  bool
	task             string
	maxTurns         int
	tui              bool
}

// bootError pairs a user-facing message with the exit code run() should
// return, so every failure path in boot() carries its own exit code instead
// of every caller re-deriving one from the error's type.
type bootError struct {
	code int
	err  error
}

func (e *bootError) Error() string { return e.err.Error() }

func newBootError(code int, format string, args ...any) *bootError {
	return &bootError{code: code, err: fmt.Errorf(format, args...)}
}

// runtime holds every wired component a booted sentinel session needs.
type runtime struct {
	cfg        *config.Config
	registry   *protocol.Registry
	dispatcher *session.Dispatcher
	permission *permission.Policy
	audit      *audit.Sink
	provider   model.Provider
	watcher    *integrity.Watcher
}

// close releases the runtime's held resources: the audit sink's file handle
// and, if a tamper watcher was started, its fsnotify handle.
func (rt *runtime) close() {
	if rt.watcher != nil {
		rt.watcher.Close()
	}
	if rt.audit != nil {
		rt.audit.Close()
	}
}

// boot loads the policy file, verifies boot integrity, and wires the
// sandbox/tool/permission/audit/model stack described by SPEC_FULL.md §2's
// package-to-component map. prompter may be nil; when nil, ask-class tools
// fail closed unless --dangerously-skip-permissions was given.
func boot(flags bootFlags, prompter permission.Prompter) (*runtime, *bootError) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, newBootError(3, "loading config: %w", err)
	}

	if flags.expectedModel != "" && cfg.Model.Model != flags.expectedModel {
		return nil, newBootError(3, "configured model %q does not match --expected-model %q", cfg.Model.Model, flags.expectedModel)
	}

	if code, err := verifyIntegrity(cfg, flags); err != nil {
		return nil, newBootError(code, "%w", err)
	}
	if flags.generateManifest || flags.verifyOnly {
		// Caller handles the early-exit path; boot has nothing further to do.
		return nil, nil
	}

	sbCfg, err := cfg.SandboxConfig()
	if err != nil {
		return nil, newBootError(3, "sandbox config: %w", err)
	}
	if flags.strictSandbox {
		// Strict mode distrusts any operator loosening of the policy file:
		// rebuild from the conservative built-in defaults, keeping only the
		// allowed-directory set the operator named.
		sbCfg = sandbox.DefaultConfig(sbCfg.AllowedDirs)
	}
	sbCfg.ProtectedPaths = withTrustRootProtection(sbCfg.ProtectedPaths, cfg)

	guard, err := pathguard.New(sbCfg.AllowedDirs, sbCfg.ProtectedPaths, sbCfg.BlockedWriteExtensions)
	if err != nil {
		return nil, newBootError(3, "building path guard: %w", err)
	}

	if flags.pluginsDir != "" {
		if _, err := guard.Validate(flags.pluginsDir, pathguard.Read); err != nil {
			return nil, newBootError(4, "plugins directory %q is outside the sandbox's allowed directories: %w", flags.pluginsDir, err)
		}
	}

	policy, err := sandbox.NewPolicy(sbCfg)
	if err != nil {
		return nil, newBootError(3, "building sandbox policy: %w", err)
	}
	sandboxEnv, err := buildSandboxEnv(sbCfg.CommandAllowlist)
	if err != nil {
		return nil, newBootError(3, "building sandbox environment: %w", err)
	}
	executor := sandbox.NewExecutor(policy, 0, sandboxEnv)

	engine, err := anchor.NewEngine(anchor.DefaultRules())
	if err != nil {
		return nil, newBootError(3, "building anchor engine: %w", err)
	}
	anchorer := anchor.New(engine)

	ts := tools.New(guard, policy, executor, anchorer)
	registry := session.BuildRegistry(ts)

	classification, err := cfg.PermissionClassification()
	if err != nil {
		return nil, newBootError(3, "permission classification: %w", err)
	}
	perm := permission.New(classification, prompter)
	if flags.skipPermissions || cfg.Permission.SkipPermissions {
		perm.SetSkipPermissions(true)
	}

	auditPath := cfg.Audit.LogPath
	if auditPath == "" {
		auditPath = "sentinel-audit.log"
	}
	sink, err := audit.Open(auditPath, cfg.Audit.MaxRecent)
	if err != nil {
		return nil, newBootError(3, "opening audit sink: %w", err)
	}

	dispatcher := session.NewDispatcher(registry, perm, sink)

	apiKey, err := cfg.APIKey()
	if err != nil {
		sink.Close()
		return nil, newBootError(3, "model credentials: %w", err)
	}
	timeout, err := cfg.ModelTimeout()
	if err != nil {
		sink.Close()
		return nil, newBootError(3, "model.timeout: %w", err)
	}
	providerOpts := []model.OpenAIOption{model.WithAPIKey(apiKey), model.WithTimeout(timeout)}
	if cfg.Model.Model != "" {
		providerOpts = append(providerOpts, model.WithModel(cfg.Model.Model))
	}
	if cfg.Model.BaseURL != "" {
		providerOpts = append(providerOpts, model.WithBaseURL(cfg.Model.BaseURL))
	}
	if cfg.Model.MaxRetries != nil {
		providerOpts = append(providerOpts, model.WithMaxRetries(*cfg.Model.MaxRetries))
	}
	provider := model.NewOpenAIProvider(providerOpts...)

	watcher, err := startTamperWatcher(cfg, sink)
	if err != nil {
		sink.Close()
		return nil, newBootError(3, "starting integrity watcher: %w", err)
	}

	return &runtime{
		cfg:        cfg,
		registry:   registry,
		dispatcher: dispatcher,
		permission: perm,
		audit:      sink,
		provider:   provider,
		watcher:    watcher,
	}, nil
}

// verifyIntegrity implements spec.md §4.I: --generate-manifest computes and
// saves a fresh manifest; otherwise the manifest at integrity.manifest_path
// (default "sentinel-manifest.json") is always loaded and re-verified, with a
// missing manifest at normal boot treated as
// a configuration error rather than a silent no-integrity-check pass, and a
// verification mismatch treated as a fatal integrity failure (exit 2).
func verifyIntegrity(cfg *config.Config, flags bootFlags) (int, error) {
	manifestPath := cfg.Integrity.ManifestPath
	if manifestPath == "" {
		manifestPath = "sentinel-manifest.json"
	}

	if flags.generateManifest {
		passphrase, err := resolvePassphrase(cfg.Integrity.PassphraseEnv)
		if err != nil {
			return 3, fmt.Errorf("manifest passphrase: %w", err)
		}
		manifest, err := integrity.Generate(cfg.Integrity.TrustRoots, passphrase, time.Now())
		if err != nil {
			return 2, fmt.Errorf("generating manifest: %w", err)
		}
		if err := integrity.Save(manifestPath, manifest); err != nil {
			return 2, fmt.Errorf("saving manifest: %w", err)
		}
		return 0, nil
	}

	manifest, err := integrity.Load(manifestPath)
	if err != nil {
		return 3, fmt.Errorf("loading manifest %s (run --generate-manifest first): %w", manifestPath, err)
	}
	passphrase, err := resolvePassphrase(cfg.Integrity.PassphraseEnv)
	if err != nil {
		return 3, fmt.Errorf("manifest passphrase: %w", err)
	}

	result := integrity.NewVerifier().Verify(manifest, passphrase)
	if !result.OK() {
		for _, v := range result.Violations {
			fmt.Fprintf(os.Stderr, "integrity: %s\n", v.Error())
		}
		return 2, fmt.Errorf("boot integrity verification failed for %s", manifestPath)
	}
	return 0, nil
}

// withTrustRootProtection appends the manifest file and every trust root
// named in cfg.Integrity to protected, deduplicating against whatever the
// operator's policy file already listed. spec.md §6 requires these paths be
// write-denied unconditionally — an operator who never populates
// sandbox.protected_paths must still get this floor, not an empty set.
func withTrustRootProtection(protected []string, cfg *config.Config) []string {
	seen := make(map[string]bool, len(protected))
	for _, p := range protected {
		seen[p] = true
	}

	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		protected = append(protected, p)
	}

	manifestPath := cfg.Integrity.ManifestPath
	if manifestPath == "" {
		manifestPath = "sentinel-manifest.json"
	}
	add(manifestPath)
	for _, root := range cfg.Integrity.TrustRoots {
		add(root)
	}
	return protected
}

// startTamperWatcher wires internal/integrity's post-boot fsnotify watcher
// to the audit sink, per spec.md §4.I: tamper detection is observability,
// not an automatic abort, so the watcher only ever records a warning event.
func startTamperWatcher(cfg *config.Config, sink *audit.Sink) (*integrity.Watcher, error) {
	if len(cfg.Integrity.TrustRoots) == 0 {
		return nil, nil
	}
	debounce, err := cfg.WatchDebounce()
	if err != nil {
		return nil, err
	}
	watcher, err := integrity.NewWatcher(cfg.Integrity.TrustRoots, debounce, func(ev integrity.TamperEvent) {
		_ = sink.Record(audit.Event{
			Timestamp: ev.At,
			Severity:  audit.Warning,
			Kind:      "trust_root_modified",
			Tool:      "",
			Message:   fmt.Sprintf("%s: %s", ev.Path, ev.Op),
		})
	})
	if err != nil {
		return nil, err
	}
	return watcher, nil
}
