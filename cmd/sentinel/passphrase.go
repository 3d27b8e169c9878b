package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// resolvePassphrase returns the manifest passphrase from the environment
// variable the policy file names. If that variable is unset and stdin is an
// interactive terminal, it falls back to an operator prompt with hidden
// input — the same term.IsTerminal/term.ReadPassword pattern the teacher
// uses for its vault unlock prompt — so --generate-manifest and
// --verify-only don't force a secret into the shell's history on every
// invocation.
func resolvePassphrase(envVar string) (string, error) {
	if envVar == "" {
		return "", fmt.Errorf("integrity.passphrase_env is not set")
	}
	if phrase := os.Getenv(envVar); phrase != "" {
		return phrase, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("environment variable %s is not set", envVar)
	}

	fmt.Fprintf(os.Stderr, "manifest passphrase (%s): ", envVar)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	phrase := strings.TrimSpace(string(raw))
	if phrase == "" {
		return "", fmt.Errorf("no passphrase entered")
	}
	return phrase, nil
}
