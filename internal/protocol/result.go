package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/nox-hq/sentinel/internal/sandbox"
)

// maxPayloadBytes is the 50,000-byte cap on a single [TOOL_RESULT] payload.
const maxPayloadBytes = 50_000

// Result is the tagged union a tool call resolves to: success carries Data,
// failure carries ErrorKind. Truncated and BytesRead are informational and
// may be set on either branch.
type Result struct {
	OK        bool              `json:"ok"`
	Data      any               `json:"data,omitempty"`
	ErrorKind sandbox.ErrorKind `json:"error_kind,omitempty"`
	Truncated bool              `json:"truncated"`
	BytesRead int               `json:"bytes_read,omitempty"`
}

// OKResult builds a successful Result.
func OKResult(data any, bytesRead int) Result {
	return Result{OK: true, Data: data, BytesRead: bytesRead}
}

// ErrResult builds a failed Result for the given canonical error kind.
func ErrResult(kind sandbox.ErrorKind) Result {
	return Result{OK: false, ErrorKind: kind}
}

// MarshalFrame serializes r and wraps it in the [TOOL_RESULT name] … block.
// When the JSON payload exceeds maxPayloadBytes, Data is dropped whole (no
// prefix of it is kept) and the result is re-marshaled with Truncated=true;
// a payload still over the cap after that is cut at maxPayloadBytes. A
// payload that fails to marshal (should not happen for the
// plain data types handlers return) degrades to an internal_error frame
// rather than panicking — the model must always get a well-formed frame.
func (r Result) MarshalFrame(name string) string {
	payload, err := json.Marshal(r)
	if err != nil {
		fallback := Result{OK: false, ErrorKind: sandbox.InternalError}
		payload, _ = json.Marshal(fallback)
	}

	if len(payload) > maxPayloadBytes {
		r.Truncated = true
		r.Data = nil
		truncated, mErr := json.Marshal(r)
		if mErr == nil {
			payload = truncated
		}
		if len(payload) > maxPayloadBytes {
			payload = payload[:maxPayloadBytes]
		}
	}

	return fmt.Sprintf("[TOOL_RESULT %s]\n%s\n[/TOOL_RESULT]", name, payload)
}
