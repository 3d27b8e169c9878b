package tools

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nox-hq/sentinel/internal/pathguard"
)

// defaultMaxReadLines is MAX_READ_LINES from spec.md §4.H.
const defaultMaxReadLines = 500

// FileReadResult is the data payload a successful file_read call returns.
type FileReadResult struct {
	Content   string `json:"content"`
	BytesRead int    `json:"bytes_read"`
}

// FileRead validates path against the guard, reads at most MaxReadLines
// lines starting at offset (1-based, 0 meaning "from the top"), prefixes
// each with its line number, and passes the result through the anchorer
// unless path is on the session's trusted list. Trusted reports whether the
// caller should mark the turn's provenance tracker as a trusted read.
func (t *Toolset) FileRead(path string, offset, limit int) (result FileReadResult, trusted bool, err error) {
	canonical, verr := t.Guard.Validate(path, pathguard.Read)
	if verr != nil {
		return FileReadResult{}, false, verr
	}

	f, openErr := os.Open(canonical)
	if openErr != nil {
		return FileReadResult{}, false, fmt.Errorf("file_read %q: %w", path, openErr)
	}
	defer f.Close()

	if limit <= 0 {
		limit = t.maxReadLines()
	}
	if offset <= 0 {
		offset = 1
	}

	var b strings.Builder
	totalBytes := 0
	lineNo := 0
	emitted := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lineNo++
		if lineNo < offset {
			continue
		}
		if emitted >= limit {
			break
		}
		line := scanner.Text()
		totalBytes += len(line) + 1
		fmt.Fprintf(&b, "%6d\t%s\n", lineNo, line)
		emitted++
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return FileReadResult{}, false, fmt.Errorf("file_read %q: %w", path, scanErr)
	}

	trusted = t.IsTrusted(canonical)
	content := b.String()
	if !trusted {
		content = t.Anchor.Process(content, path)
	}

	return FileReadResult{Content: content, BytesRead: totalBytes}, trusted, nil
}

func (t *Toolset) maxReadLines() int {
	if t.MaxReadLines > 0 {
		return t.MaxReadLines
	}
	return defaultMaxReadLines
}
