package audit

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSink_RecordAppendsJSONLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")

	sink, err := Open(path, 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sink.Close()

	ev := Event{Timestamp: time.Unix(0, 0), Severity: Info, Kind: "tool_call", Tool: "file_read", Message: "ok"}
	if err := sink.Record(ev); err != nil {
		t.Fatalf("Record: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lines := 0
	for scanner.Scan() {
		lines++
	}
	if lines != 1 {
		t.Fatalf("expected 1 line in log, got %d", lines)
	}
}

func TestSink_RecentTrimsToMaxKept(t *testing.T) {
	dir := t.TempDir()
	sink, err := Open(filepath.Join(dir, "audit.log"), 2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer sink.Close()

	for i := 0; i < 5; i++ {
		sink.Record(Event{Kind: "tick"})
	}

	if len(sink.Recent()) != 2 {
		t.Fatalf("expected 2 recent events, got %d", len(sink.Recent()))
	}
}

func TestSink_AppendsAcrossReopens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.log")

	sink1, _ := Open(path, 10)
	sink1.Record(Event{Kind: "first"})
	sink1.Close()

	sink2, err := Open(path, 10)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer sink2.Close()
	sink2.Record(Event{Kind: "second"})

	data, _ := os.ReadFile(path)
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines across reopen, got %d", lines)
	}
}
