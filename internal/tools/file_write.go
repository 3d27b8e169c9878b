package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nox-hq/sentinel/internal/pathguard"
)

// FileWriteResult is the data payload a successful file_write call returns.
type FileWriteResult struct {
	BytesWritten int `json:"bytes_written"`
}

// FileWrite validates path for the Write mode and writes content atomically
// (temp file + rename), the same idiom the teacher's cli.SaveState uses for
// its state file. When an existing file is being overwritten, its prior
// content is preserved at path+".bak" first so a later /undo can restore it.
func (t *Toolset) FileWrite(path, content string) (FileWriteResult, error) {
	canonical, verr := t.Guard.Validate(path, pathguard.Write)
	if verr != nil {
		return FileWriteResult{}, verr
	}

	if prior, err := os.ReadFile(canonical); err == nil {
		if err := os.WriteFile(canonical+".bak", prior, 0o644); err != nil {
			return FileWriteResult{}, fmt.Errorf("file_write backup %q: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(canonical), 0o755); err != nil {
		return FileWriteResult{}, fmt.Errorf("file_write mkdir %q: %w", path, err)
	}

	tmp := canonical + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return FileWriteResult{}, fmt.Errorf("file_write %q: %w", path, err)
	}
	if err := os.Rename(tmp, canonical); err != nil {
		_ = os.Remove(tmp)
		return FileWriteResult{}, fmt.Errorf("file_write rename %q: %w", path, err)
	}

	return FileWriteResult{BytesWritten: len(content)}, nil
}
