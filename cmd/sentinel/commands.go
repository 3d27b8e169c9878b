package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nox-hq/sentinel/internal/mcpbridge"
	"github.com/nox-hq/sentinel/internal/permission"
	"github.com/nox-hq/sentinel/internal/tui"
)

// runServe boots the runtime and exposes its tool registry over MCP on
// stdio, mirroring the teacher's runServe wiring server.New(...).Serve().
func runServe(flags bootFlags) int {
	rt, bootErr := boot(flags, nil)
	if bootErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", bootErr)
		return bootErr.code
	}
	if rt == nil {
		// --generate-manifest or --verify-only already ran to completion.
		return 0
	}
	defer rt.close()

	bridge := mcpbridge.New(version, rt.dispatcher, rt.registry)
	if err := bridge.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "error: MCP server failed: %v\n", err)
		return 3
	}
	return 0
}

// runAgent boots the runtime and drives the interactive agent loop, either
// in plain stdout mode or, with --tui, through internal/tui's transcript
// and permission-prompt program.
func runAgent(flags bootFlags) int {
	if flags.tui {
		return runAgentTUI(flags)
	}
	return runAgentPlain(flags)
}

func runAgentPlain(flags bootFlags) int {
	statePath := DefaultStatePath()
	state, err := LoadState(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading session state: %v\n", err)
		return 3
	}

	onAlways := func(tool string) {
		state.SetOverride(tool, string(permission.Allow), time.Now())
		if err := SaveState(statePath, state); err != nil {
			fmt.Fprintf(os.Stderr, "warning: saving session state: %v\n", err)
		}
	}

	rt, bootErr := boot(flags, newStdinPrompter(nil, nil, onAlways))
	if bootErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", bootErr)
		return bootErr.code
	}
	if rt == nil {
		return 0
	}
	defer rt.close()

	for _, ov := range state.Overrides {
		rt.permission.Override(ov.Tool, permission.Decision(ov.Decision))
	}

	task, err := readTask(flags.task)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading task: %v\n", err)
		return 3
	}

	sink := &plainEventSink{}
	if err := runLoop(rt, task, flags.maxTurns, sink); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 3
	}
	return 0
}

func runAgentTUI(flags bootFlags) int {
	statePath := DefaultStatePath()
	state, err := LoadState(statePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading session state: %v\n", err)
		return 3
	}

	program := tea.NewProgram(tui.New(nil), tea.WithAltScreen())

	rt, bootErr := boot(flags, tui.NewPrompter(program))
	if bootErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", bootErr)
		return bootErr.code
	}
	if rt == nil {
		return 0
	}
	defer rt.close()

	for _, ov := range state.Overrides {
		rt.permission.Override(ov.Tool, permission.Decision(ov.Decision))
	}

	task, err := readTask(flags.task)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading task: %v\n", err)
		return 3
	}

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- runLoop(rt, task, flags.maxTurns, &tuiEventSink{program: program})
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: TUI failed: %v\n", err)
		return 3
	}
	if err := <-loopErr; err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 3
	}
	return 0
}
