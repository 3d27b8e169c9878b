package protocol

import (
	"context"
	"fmt"
	"sort"

	"github.com/nox-hq/sentinel/internal/tools"
)

// Signature documents a tool's accepted positional and keyword arguments for
// prompt construction; it carries no validation logic of its own — argument
// checking is each Handler's own responsibility.
type Signature struct {
	Positional []string
	Keyword    []string
}

// Handler executes one resolved, arbitrated, provenance-checked Call and
// returns the data to embed in a Result, or an error.
type Handler func(ctx context.Context, call Call) (any, error)

// Tool is one entry in the frozen registry: identity, capability class for
// provenance/anchoring purposes, a documented signature, and its handler.
type Tool struct {
	Name      string
	Class     tools.Capability
	Signature Signature
	Handler   Handler
}

// Registry is the dispatcher's frozen tool set. Register calls are only
// accepted before Freeze; this mirrors the
// teacher's sdk.PluginServer HandleTool chaining, generalized from
// out-of-process gRPC dispatch to in-process lookup.
type Registry struct {
	tools  map[string]Tool
	frozen bool
}

// NewRegistry returns an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds tool to the registry. It panics on a duplicate name or a
// Register call after Freeze, since both indicate a wiring bug discovered at
// boot, not a runtime condition to recover from.
func (r *Registry) Register(t Tool) *Registry {
	if r.frozen {
		panic(fmt.Sprintf("protocol: Register(%q) after Freeze", t.Name))
	}
	if _, exists := r.tools[t.Name]; exists {
		panic(fmt.Sprintf("protocol: duplicate tool registration %q", t.Name))
	}
	r.tools[t.Name] = t
	return r
}

// Freeze prevents further Register calls. The dispatcher calls this once
// at boot, after every tool package has registered its handlers.
func (r *Registry) Freeze() { r.frozen = true }

// Lookup resolves name to its Tool. ok is false for any name not registered,
// which the dispatcher surfaces as error_kind=parse_error ("unknown tool"),
// per spec.md §6 ("Unknown names yield parse_error").
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns every registered tool name, sorted, for prompt construction
// and diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for n := range r.tools {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
