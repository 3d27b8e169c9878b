// Package mcpbridge exposes the frozen tool registry over the Model
// Context Protocol, so an external MCP client can drive the same sandboxed
// toolset a sentinel session's own model loop uses. It is the direct
// generalization of the teacher's server.Server, retargeted from "serve
// static scan artifacts (findings, SBOM, SARIF)" to "serve live, gated tool
// calls": every MCP tool invocation is re-serialized into the same ::TOOL
// name(args):: wire grammar the in-process dispatcher parses, then replayed
// through session.Dispatcher.DispatchTurn — the bridge adds no parallel
// permission/provenance/anchoring logic of its own, so an MCP client gets
// exactly the guarantees a model-driven turn gets.
package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/nox-hq/sentinel/internal/protocol"
	"github.com/nox-hq/sentinel/internal/session"
	"github.com/nox-hq/sentinel/internal/tools"
)

// Bridge adapts a session.Dispatcher and its frozen protocol.Registry to an
// MCP server surface.
type Bridge struct {
	version    string
	dispatcher *session.Dispatcher
	registry   *protocol.Registry
}

// New returns a Bridge that serves every tool in registry through
// dispatcher.
func New(version string, dispatcher *session.Dispatcher, registry *protocol.Registry) *Bridge {
	return &Bridge{version: version, dispatcher: dispatcher, registry: registry}
}

// Serve starts the MCP server on stdio and blocks until the client
// disconnects, mirroring the teacher's Server.Serve.
func (b *Bridge) Serve() error {
	srv := mcpserver.NewMCPServer(
		"sentinel",
		b.version,
		mcpserver.WithRecovery(),
		mcpserver.WithToolCapabilities(false),
	)

	b.registerTools(srv)

	return mcpserver.ServeStdio(srv)
}

// registerTools builds one MCP tool per registry entry. Every declared
// argument is a plain optional string: the wire grammar has no static
// typing, so there is nothing stronger to advertise here than the
// Signature's argument names themselves.
func (b *Bridge) registerTools(srv *mcpserver.MCPServer) {
	for _, name := range b.registry.Names() {
		tool, _ := b.registry.Lookup(name)

		opts := []mcp.ToolOption{
			mcp.WithDescription(fmt.Sprintf("sentinel tool %q", tool.Name)),
		}
		for _, arg := range dedupArgs(tool.Signature) {
			opts = append(opts, mcp.WithString(arg, mcp.Description(fmt.Sprintf("%s argument", arg))))
		}
		if tool.Class == tools.Read {
			opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
		}

		srv.AddTool(mcp.NewTool(tool.Name, opts...), b.makeHandler(tool.Name))
	}
}

// dedupArgs merges Positional and Keyword argument names, since the MCP
// surface exposes one flat set of named string parameters regardless of
// how the underlying handler resolves them.
func dedupArgs(sig protocol.Signature) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range sig.Positional {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range sig.Keyword {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// makeHandler returns an MCP tool handler for toolName that re-serializes
// the request's arguments into a ::TOOL name(args):: line and replays it
// through the dispatcher.
func (b *Bridge) makeHandler(toolName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		line := encodeCall(toolName, request.GetArguments())

		_, frames := b.dispatcher.DispatchTurn(ctx, line)
		if len(frames) != 1 {
			return mcp.NewToolResultError(fmt.Sprintf("expected one result frame for %q, got %d", toolName, len(frames))), nil
		}

		result, err := decodeFrame(frames[0])
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !result.OK {
			return mcp.NewToolResultError(string(result.ErrorKind)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("%v", result.Data)), nil
	}
}

// encodeCall builds a ::TOOL name(args):: line from a flat argument map,
// quoting every value the way protocol's parser expects to unquote it.
func encodeCall(name string, args map[string]any) string {
	var b strings.Builder
	b.WriteString("::TOOL ")
	b.WriteString(name)
	b.WriteByte('(')

	first := true
	for k, v := range args {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(quoteValue(v))
	}

	b.WriteString(")::")
	return b.String()
}

func quoteValue(v any) string {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprintf("%v", val)
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// decodeFrame extracts the JSON payload MarshalFrame wraps in a
// "[TOOL_RESULT name]\n{...}\n[/TOOL_RESULT]" block.
func decodeFrame(frame string) (protocol.Result, error) {
	start := strings.IndexByte(frame, '\n')
	end := strings.LastIndexByte(frame, '\n')
	if start == -1 || end == -1 || end <= start {
		return protocol.Result{}, fmt.Errorf("malformed result frame")
	}
	var result protocol.Result
	if err := json.Unmarshal([]byte(frame[start+1:end]), &result); err != nil {
		return protocol.Result{}, fmt.Errorf("decoding result frame: %w", err)
	}
	return result, nil
}
