package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// stdinPrompter implements permission.Prompter for plain (non-TUI) mode: it
// prints the pending ask-class call and its arguments, then blocks on a
// single line of operator input. It is the non-interactive-UI analog of
// internal/tui's Prompter, grounded on the same Confirm contract.
//
// Answering "a"/"always" approves the call and, if onAlways is set, invokes
// it so the caller can persist the decision as a standing override (see
// State.SetOverride) instead of asking again next boot.
type stdinPrompter struct {
	in       io.Reader
	out      io.Writer
	onAlways func(toolName string)
}

func newStdinPrompter(in io.Reader, out io.Writer, onAlways func(string)) *stdinPrompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &stdinPrompter{in: in, out: out, onAlways: onAlways}
}

func (p *stdinPrompter) Confirm(ctx context.Context, toolName string, args map[string]any) (bool, error) {
	fmt.Fprintf(p.out, "\npermission: model wants to run %q\n", toolName)

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(p.out, "  %s = %v\n", k, args[k])
	}
	fmt.Fprint(p.out, "approve? [y/N/a=always] ")

	answered := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(p.in).ReadString('\n')
		answered <- strings.TrimSpace(strings.ToLower(line))
	}()

	select {
	case line := <-answered:
		switch line {
		case "a", "always":
			if p.onAlways != nil {
				p.onAlways(toolName)
			}
			return true, nil
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	case <-ctx.Done():
		return false, fmt.Errorf("waiting for operator decision on %s: %w", toolName, ctx.Err())
	}
}
