package model

import (
	"context"
	"errors"
	"testing"
)

// MockProvider is a configurable test double for the Provider interface,
// used by this package's tests to script model replies without making a
// network call. Being in a _test file, it is not visible to other packages.
type MockProvider struct {
	Responses []Response
	Err       error
	Calls     [][]Message
	callIdx   int
}

func (m *MockProvider) Complete(_ context.Context, messages []Message) (*Response, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.callIdx >= len(m.Responses) {
		return nil, errors.New("mock: no more responses configured")
	}
	resp := m.Responses[m.callIdx]
	m.callIdx++
	return &resp, nil
}

func TestMockProvider_Complete(t *testing.T) {
	mock := &MockProvider{
		Responses: []Response{
			{Content: "hello", PromptTokens: 10, CompletionTokens: 5},
		},
	}

	resp, err := mock.Complete(context.Background(), []Message{
		{Role: RoleUser, Content: "test"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "hello" {
		t.Fatalf("expected content %q, got %q", "hello", resp.Content)
	}
	if resp.PromptTokens != 10 {
		t.Fatalf("expected 10 prompt tokens, got %d", resp.PromptTokens)
	}
	if resp.CompletionTokens != 5 {
		t.Fatalf("expected 5 completion tokens, got %d", resp.CompletionTokens)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
}

func TestMockProvider_Error(t *testing.T) {
	mock := &MockProvider{Err: errors.New("api down")}

	_, err := mock.Complete(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "api down" {
		t.Fatalf("expected 'api down', got %q", err.Error())
	}
}

func TestMockProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = (*MockProvider)(nil)
}

func TestToolResultMessage_JoinsFramesAndTaints(t *testing.T) {
	msg := ToolResultMessage([]string{"[TOOL_RESULT file_read]\nok\n[/TOOL_RESULT]", "[TOOL_RESULT bash_exec]\nok\n[/TOOL_RESULT]"})
	if msg.Role != RoleUser {
		t.Fatalf("expected RoleUser, got %v", msg.Role)
	}
	if !msg.Tainted {
		t.Fatal("expected tool-result message to be marked Tainted")
	}
	const want = "[TOOL_RESULT file_read]\nok\n[/TOOL_RESULT]\n[TOOL_RESULT bash_exec]\nok\n[/TOOL_RESULT]"
	if msg.Content != want {
		t.Fatalf("expected %q, got %q", want, msg.Content)
	}
}
