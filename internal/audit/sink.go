package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Sink is an append-only, single-writer JSON-lines event log. §5's "the
// audit-log sink is append-only and serialized behind a single writer, no
// lock hierarchy required beyond the writer mutex" is enforced directly by
// the mutex below — Sink has no other synchronization.
type Sink struct {
	mu   sync.Mutex
	file *os.File

	recent  []Event
	maxKept int
}

// Open appends to (creating if necessary) the JSON-lines file at path.
// maxKept bounds how many recent events Recent() can return for the
// dashboard; 0 defaults to 500.
func Open(path string, maxKept int) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening audit log %s: %w", path, err)
	}
	if maxKept <= 0 {
		maxKept = 500
	}
	return &Sink{file: f, maxKept: maxKept}, nil
}

// Record appends ev to the log and keeps it in the in-memory recent-events
// ring the dashboard reads from.
func (s *Sink) Record(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling audit event: %w", err)
	}
	line = append(line, '\n')
	if _, err := s.file.Write(line); err != nil {
		return fmt.Errorf("writing audit event: %w", err)
	}

	s.recent = append(s.recent, ev)
	if len(s.recent) > s.maxKept {
		s.recent = s.recent[len(s.recent)-s.maxKept:]
	}
	return nil
}

// Recent returns a copy of the most recently recorded events, oldest first.
func (s *Sink) Recent() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.recent...)
}

// Close closes the underlying log file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
