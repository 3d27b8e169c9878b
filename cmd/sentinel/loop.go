package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nox-hq/sentinel/internal/audit"
	"github.com/nox-hq/sentinel/internal/model"
	"github.com/nox-hq/sentinel/internal/protocol"
	"github.com/nox-hq/sentinel/internal/tui"
)

// systemPrompt is the fixed instruction every turn's conversation opens
// with, naming the ::TOOL ...:: wire grammar the dispatcher parses.
const systemPrompt = `You are a local coding agent. To act, emit one or more lines of the form ` +
	`::TOOL name(arg="value", ...)::. Tool results are returned wrapped in [TOOL_RESULT]...[/TOOL_RESULT] ` +
	`blocks. When you have nothing further to execute, answer in plain text with no ::TOOL ...:: lines.`

// eventSink receives audit events and the loop's final answer as the agent
// runs, so runLoop stays agnostic to whether it's reporting to plain stdout
// or to the internal/tui transcript program.
type eventSink interface {
	publish(events []audit.Event)
	publishFinal(text string)
}

// runLoop drives the turn-by-turn conversation: send messages to the model,
// dispatch any ::TOOL ...:: calls it emits, reinject the results, and repeat
// until the model answers with no further calls, the operator interrupts,
// or maxTurns is exhausted.
func runLoop(rt *runtime, task string, maxTurns int, sink eventSink) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	if rt.watcher != nil {
		stop := make(chan struct{})
		defer close(stop)
		go rt.watcher.Run(stop)
	}

	messages := []model.Message{
		{Role: model.RoleSystem, Content: systemPrompt},
		{Role: model.RoleUser, Content: task},
	}

	lastEventCount := 0
	flush := func() {
		recent := rt.audit.Recent()
		if len(recent) > lastEventCount {
			sink.publish(recent[lastEventCount:])
			lastEventCount = len(recent)
		}
	}

	for turn := 0; turn < maxTurns; turn++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		resp, err := rt.provider.Complete(ctx, messages)
		if err != nil {
			return fmt.Errorf("model turn %d: %w", turn, err)
		}
		messages = append(messages, model.Message{Role: model.RoleAssistant, Content: resp.Content})

		calls, _ := protocol.ScanCalls(resp.Content)
		if len(calls) == 0 {
			sink.publishFinal(resp.Content)
			return nil
		}

		_, frames := rt.dispatcher.DispatchTurn(ctx, resp.Content)
		flush()
		messages = append(messages, model.ToolResultMessage(frames))
	}
	return fmt.Errorf("reached --max-turns (%d) without a final answer", maxTurns)
}

// readTask loads the initial user message from a file path, "-" for stdin,
// or returns an error if unset — an agent loop needs a task to start on.
func readTask(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no task given: pass --task <file> or --task -")
	}
	if path == "-" {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// plainEventSink prints audit events and the final answer directly to
// stdout, for non-TUI runs.
type plainEventSink struct{}

func (plainEventSink) publish(events []audit.Event) {
	for _, ev := range events {
		fmt.Printf("[%s] %s %s: %s\n", ev.Timestamp.Format(time.RFC3339), ev.Severity, ev.Kind, ev.Message)
	}
}

func (plainEventSink) publishFinal(text string) {
	fmt.Printf("\n%s\n", text)
}

// tuiEventSink forwards audit events and the final answer into a running
// internal/tui program via Program.Send, the same channel the dispatcher's
// ask-class prompts travel over.
type tuiEventSink struct {
	program *tea.Program
}

func (s *tuiEventSink) publish(events []audit.Event) {
	for _, ev := range events {
		s.program.Send(tui.AppendEventMsg(ev))
	}
}

func (s *tuiEventSink) publishFinal(text string) {
	s.program.Send(tui.AppendEventMsg(audit.Event{
		Timestamp: time.Now(),
		Severity:  audit.Info,
		Kind:      "final_answer",
		Message:   text,
	}))
}
