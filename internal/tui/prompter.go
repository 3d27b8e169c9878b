package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// programSender is the slice of *tea.Program's API that Prompter needs.
// Depending on this instead of the concrete type lets Prompter be driven
// by a fake in tests without starting a real terminal program.
type programSender interface {
	Send(tea.Msg)
}

// Prompter implements permission.Prompter by routing ask-class confirmation
// requests through a running Bubble Tea program: it sends a PromptRequest
// into the program and blocks on the response channel until the operator
// answers or ctx is canceled.
type Prompter struct {
	program programSender
}

// NewPrompter returns a Prompter that delivers prompts to program.
func NewPrompter(program programSender) *Prompter {
	return &Prompter{program: program}
}

// Confirm implements permission.Prompter.
func (p *Prompter) Confirm(ctx context.Context, toolName string, args map[string]any) (bool, error) {
	resp := make(chan bool, 1)
	p.program.Send(PromptRequest{Tool: toolName, Args: args, Resp: resp})

	select {
	case ok := <-resp:
		return ok, nil
	case <-ctx.Done():
		return false, fmt.Errorf("waiting for operator decision on %s: %w", toolName, ctx.Err())
	}
}
