package session

import (
	"testing"

	"github.com/nox-hq/sentinel/internal/protocol"
)

func TestResolveArgs_PositionalAndKeywordMerge(t *testing.T) {
	call := protocol.Call{
		Positional: []protocol.Value{{Str: "a.txt"}},
		Keyword:    map[string]protocol.Value{"limit": {Str: "10"}},
	}
	args := resolveArgs(call, []string{"path", "offset", "limit"})

	if argStr(args, "path", "") != "a.txt" {
		t.Errorf("expected positional path to resolve, got %q", args["path"])
	}
	if argInt(args, "limit", 0) != 10 {
		t.Errorf("expected keyword limit to resolve, got %v", args["limit"])
	}
	if argInt(args, "offset", -1) != -1 {
		t.Errorf("expected missing offset to fall back to default")
	}
}

func TestResolveArgs_KeywordWinsOverPositional(t *testing.T) {
	call := protocol.Call{
		Positional: []protocol.Value{{Str: "ignored.txt"}},
		Keyword:    map[string]protocol.Value{"path": {Str: "explicit.txt"}},
	}
	args := resolveArgs(call, []string{"path"})

	if argStr(args, "path", "") != "explicit.txt" {
		t.Errorf("expected keyword to win, got %q", args["path"])
	}
}
