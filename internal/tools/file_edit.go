package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/nox-hq/sentinel/internal/pathguard"
)

// ErrAmbiguousMatch is returned when find matches more than once in a file
// and no occurrence ordinal was given to disambiguate.
var ErrAmbiguousMatch = fmt.Errorf("ambiguous_match")

// ErrNoMatch is returned when find does not appear in the file at all.
var ErrNoMatch = fmt.Errorf("not_found")

// FileEditResult is the data payload a successful file_edit call returns.
type FileEditResult struct {
	BytesWritten int `json:"bytes_written"`
}

// FileEdit validates path for Edit mode, then replaces find with replace.
// occurrence is 1-based and selects which match to replace when find
// appears more than once; 0 means "require a unique match". It fails with
// ErrAmbiguousMatch when find is non-unique and no occurrence was given, and
// ErrNoMatch when find does not appear at all.
func (t *Toolset) FileEdit(path, find, replace string, occurrence int) (FileEditResult, error) {
	canonical, verr := t.Guard.Validate(path, pathguard.Edit)
	if verr != nil {
		return FileEditResult{}, verr
	}

	data, readErr := os.ReadFile(canonical)
	if readErr != nil {
		return FileEditResult{}, fmt.Errorf("file_edit %q: %w", path, readErr)
	}
	original := string(data)

	count := strings.Count(original, find)
	if count == 0 {
		return FileEditResult{}, ErrNoMatch
	}
	if occurrence == 0 && count > 1 {
		return FileEditResult{}, ErrAmbiguousMatch
	}
	if occurrence == 0 {
		occurrence = 1
	}
	if occurrence > count {
		return FileEditResult{}, ErrNoMatch
	}

	updated := replaceNth(original, find, replace, occurrence)

	if err := os.WriteFile(canonical+".bak", data, 0o644); err != nil {
		return FileEditResult{}, fmt.Errorf("file_edit backup %q: %w", path, err)
	}

	tmp := canonical + ".tmp"
	if err := os.WriteFile(tmp, []byte(updated), 0o644); err != nil {
		return FileEditResult{}, fmt.Errorf("file_edit %q: %w", path, err)
	}
	if err := os.Rename(tmp, canonical); err != nil {
		_ = os.Remove(tmp)
		return FileEditResult{}, fmt.Errorf("file_edit rename %q: %w", path, err)
	}

	return FileEditResult{BytesWritten: len(updated)}, nil
}

// replaceNth replaces the n-th (1-based) occurrence of old in s with new.
func replaceNth(s, old, new string, n int) string {
	var b strings.Builder
	remaining := s
	for i := 1; ; i++ {
		idx := strings.Index(remaining, old)
		if idx == -1 {
			b.WriteString(remaining)
			break
		}
		b.WriteString(remaining[:idx])
		if i == n {
			b.WriteString(new)
		} else {
			b.WriteString(old)
		}
		remaining = remaining[idx+len(old):]
	}
	return b.String()
}
