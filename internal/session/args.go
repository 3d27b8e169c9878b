package session

import (
	"strconv"

	"github.com/nox-hq/sentinel/internal/protocol"
)

// resolveArgs merges a Call's positional and keyword arguments into a
// single name->string map, using positionalNames to assign names to
// positional values in order. Keyword args always win over a positional
// value assigned to the same name, since a model emitting both for one
// parameter is almost certainly intending the explicit keyword form.
func resolveArgs(call protocol.Call, positionalNames []string) map[string]string {
	out := make(map[string]string, len(positionalNames)+len(call.Keyword))
	for i, v := range call.Positional {
		if i < len(positionalNames) {
			out[positionalNames[i]] = v.Str
		}
	}
	for k, v := range call.Keyword {
		out[k] = v.Str
	}
	return out
}

func argStr(args map[string]string, name, def string) string {
	if v, ok := args[name]; ok {
		return v
	}
	return def
}

func argInt(args map[string]string, name string, def int) int {
	v, ok := args[name]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// anyArgs converts a resolved args map to map[string]any for
// permission.Policy.Arbitrate, which surfaces arguments to the operator's
// ask-prompt and has no reason to care about their Go types.
func anyArgs(args map[string]string) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
