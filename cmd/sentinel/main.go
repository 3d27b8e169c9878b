// Package main is the entry point for the sentinel CLI: the reference
// wiring that boots the sandbox, permission arbitrator, audit sink, and
// model backend into a runnable local agent loop. It is the direct
// generalization of the teacher's cli package, retargeted from "parse a
// scan subcommand and print a findings report" to "parse a boot flag set
// and run a tool-dispatching conversation loop".
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code. Exit codes follow
// spec.md §6's boot CLI contract: 0 normal, 2 integrity failure, 3
// configuration error, 4 permission refusal at boot.
func run(args []string) int {
	args = extractInterspersedArgs(args)
	fs := flag.NewFlagSet("sentinel", flag.ContinueOnError)

	var (
		configPath       string
		generateManifest bool
		verifyOnly       bool
		expectedModel    string
		strictSandbox    bool
		pluginsDir       string
		skipPermissions  bool
		taskFlag         string
		maxTurnsFlag     int
		tuiFlag          bool
		versionFlag      bool
	)

	fs.StringVar(&configPath, "config", "sentinel.yaml", "path to the sentinel policy file")
	fs.BoolVar(&generateManifest, "generate-manifest", false, "compute and save a boot integrity manifest, then exit")
	fs.BoolVar(&verifyOnly, "verify-only", false, "verify the boot integrity manifest and exit without starting a session")
	fs.StringVar(&expectedModel, "expected-model", "", "fail boot unless the configured model matches this id")
	fs.BoolVar(&strictSandbox, "strict-sandbox", false, "ignore policy-file sandbox overrides, boot with the conservative built-in defaults")
	fs.StringVar(&pluginsDir, "plugins-dir", "", "explicit plugin directory for this boot only (never auto-loaded)")
	fs.BoolVar(&skipPermissions, "dangerously-skip-permissions", false, "promote every ask-class tool to allow for this session (never promotes deny)")
	fs.StringVar(&taskFlag, "task", "", "path to a file containing the initial user message; '-' reads stdin")
	fs.IntVar(&maxTurnsFlag, "max-turns", 25, "maximum number of model turns to run before stopping the agent loop")
	fs.BoolVar(&tuiFlag, "tui", false, "watch the session through the interactive transcript/prompt UI instead of plain stdout")
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sentinel [flags] [command]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve            Expose the tool registry over MCP on stdio\n")
		fmt.Fprintf(os.Stderr, "  version          Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 3
	}

	if versionFlag {
		printVersion()
		return 0
	}

	flags := bootFlags{
		configPath:       configPath,
		generateManifest: generateManifest,
		verifyOnly:       verifyOnly,
		expectedModel:    expectedModel,
		strictSandbox:    strictSandbox,
		pluginsDir:       pluginsDir,
		skipPermissions:  skipPermissions,
		task:             taskFlag,
		maxTurns:         maxTurnsFlag,
		tui:              tuiFlag,
	}

	remaining := fs.Args()
	command := ""
	if len(remaining) > 0 {
		command = remaining[0]
	}

	switch command {
	case "version":
		printVersion()
		return 0
	case "serve":
		return runServe(flags)
	case "":
		return runAgent(flags)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fs.Usage()
		return 3
	}
}

func printVersion() {
	fmt.Printf("sentinel %s (commit: %s, built: %s)\n", version, commit, date)
}

// extractInterspersedArgs reorders args so known top-level flags come before
// a trailing subcommand, mirroring the teacher's main.go convention that
// "sentinel serve --config x.yaml" and "sentinel --config x.yaml serve"
// behave identically.
func extractInterspersedArgs(args []string) []string {
	var flags, rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			rest = append(rest, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") {
			rest = append(rest, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if eq := strings.Index(name, "="); eq >= 0 {
			name = name[:eq]
		}
		if isTopLevelBoolFlag(name) {
			flags = append(flags, arg)
		} else if isTopLevelStringFlag(name) {
			flags = append(flags, arg)
			if !strings.Contains(arg, "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			rest = append(rest, arg)
		}
	}
	return append(flags, rest...)
}

func isTopLevelBoolFlag(name string) bool {
	switch name {
	case "generate-manifest", "verify-only", "strict-sandbox", "dangerously-skip-permissions", "tui", "version":
		return true
	}
	return false
}

func isTopLevelStringFlag(name string) bool {
	switch name {
	case "config", "expected-model", "plugins-dir", "task", "max-turns":
		return true
	}
	return false
}
