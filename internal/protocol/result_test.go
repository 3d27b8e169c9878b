package protocol

import (
	"strings"
	"testing"

	"github.com/nox-hq/sentinel/internal/sandbox"
)

func TestMarshalFrame_Success(t *testing.T) {
	r := OKResult(map[string]string{"content": "hello"}, 5)
	frame := r.MarshalFrame("file_read")

	if !strings.HasPrefix(frame, "[TOOL_RESULT file_read]\n") {
		t.Fatalf("unexpected frame prefix: %q", frame)
	}
	if !strings.HasSuffix(frame, "[/TOOL_RESULT]") {
		t.Fatalf("unexpected frame suffix: %q", frame)
	}
	if !strings.Contains(frame, `"ok":true`) {
		t.Fatalf("expected ok:true, got %q", frame)
	}
}

func TestMarshalFrame_Failure(t *testing.T) {
	r := ErrResult(sandbox.OutsideSandbox)
	frame := r.MarshalFrame("file_write")

	if !strings.Contains(frame, `"error_kind":"outside_sandbox"`) {
		t.Fatalf("expected outside_sandbox error_kind, got %q", frame)
	}
	if !strings.Contains(frame, `"ok":false`) {
		t.Fatalf("expected ok:false, got %q", frame)
	}
}

func TestMarshalFrame_TruncatesOversizedPayload(t *testing.T) {
	big := strings.Repeat("x", maxPayloadBytes*2)
	r := OKResult(big, len(big))
	frame := r.MarshalFrame("file_read")

	inner := strings.TrimSuffix(strings.TrimPrefix(frame, "[TOOL_RESULT file_read]\n"), "\n[/TOOL_RESULT]")
	if len(inner) > maxPayloadBytes {
		t.Fatalf("expected payload capped at %d bytes, got %d", maxPayloadBytes, len(inner))
	}
}
