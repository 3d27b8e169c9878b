// Package model glues sentinel's turn dispatcher to a chat-completion
// backend. It holds no sandbox logic of its own — the model is advisory,
// the sandbox is sovereign — and exists only to produce the raw text a
// turn's tool calls are parsed out of.
package model

import (
	"context"
	"strings"
)

// Role identifies the sender of a message in the chat conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in the chat conversation sent to the model.
// Tainted marks content built from [TOOL_RESULT ...] frames rather than
// typed directly by the operator — internal/anchor has already wrapped any
// untrusted substring inside it by the time it reaches here, but the flag
// lets a Provider log or route the two kinds of turns differently without
// re-deriving provenance from the text itself.
type Message struct {
	Role    Role
	Content string
	Tainted bool
}

// ToolResultMessage joins a turn's ordered [TOOL_RESULT ...] frames (as
// produced by internal/session.Dispatcher.DispatchTurn) into the single
// user-role message the next model turn is given, marked Tainted since the
// frames may carry internal/anchor-wrapped untrusted content.
func ToolResultMessage(frames []string) Message {
	return Message{Role: RoleUser, Content: strings.Join(frames, "\n"), Tainted: true}
}

// Response holds the model's reply along with token usage metadata.
type Response struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// Provider is the interface for chat-completion backends. Implementations
// must be safe for concurrent use. session.Dispatcher never assumes
// anything about Content beyond "plain text that may contain zero or more
// ::TOOL ...:: calls" — it is not Provider's job to validate or sanitize
// that text, only internal/protocol's parser's.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (*Response, error)
}
