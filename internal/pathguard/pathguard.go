// Package pathguard implements the path validator: confinement to a set of
// allowed directories, symlink-safe canonicalization, and the protected-path
// and blocked-extension policies applied to write/edit destinations.
package pathguard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mode is the operation a candidate path is being validated for.
type Mode int

const (
	Read Mode = iota
	Write
	Edit
)

// ErrorKind enumerates the canonical error_kind values this package produces.
type ErrorKind string

const (
	OutsideSandbox   ErrorKind = "outside_sandbox"
	Protected        ErrorKind = "protected"
	BlockedExtension ErrorKind = "blocked_extension"
	NotFound         ErrorKind = "not_found"
)

// Error wraps an ErrorKind with the offending path for reporting.
type Error struct {
	Kind ErrorKind
	Path string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Path) }

// Guard validates candidate paths against an immutable set of allowed
// directories, protected paths, and blocked write extensions. A zero-value
// Guard rejects everything; use New to build one from a SandboxPolicy-style
// configuration.
type Guard struct {
	allowedDirs      []string // canonical, absolute
	protectedPaths   map[string]bool
	blockedWriteExts map[string]bool
}

// New builds a Guard. allowedDirs are canonicalized at construction time
// (not at call time) since SandboxPolicy itself is immutable after boot.
func New(allowedDirs, protectedPaths []string, blockedWriteExts []string) (*Guard, error) {
	g := &Guard{
		protectedPaths:   make(map[string]bool, len(protectedPaths)),
		blockedWriteExts: make(map[string]bool, len(blockedWriteExts)),
	}

	for _, d := range allowedDirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, fmt.Errorf("resolving allowed dir %q: %w", d, err)
		}
		resolved, err := resolveExisting(abs)
		if err != nil {
			return nil, fmt.Errorf("resolving allowed dir %q: %w", d, err)
		}
		g.allowedDirs = append(g.allowedDirs, resolved)
	}

	for _, p := range protectedPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving protected path %q: %w", p, err)
		}
		g.protectedPaths[abs] = true
	}

	for _, ext := range blockedWriteExts {
		g.blockedWriteExts[strings.ToLower(ext)] = true
	}

	return g, nil
}

// Validate resolves p to its canonical form, confines it to allowedDirs, and
// for Write/Edit mode additionally rejects protected paths and blocked
// extensions. On success it returns the canonical absolute path.
func (g *Guard) Validate(p string, mode Mode) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &Error{Kind: OutsideSandbox, Path: p}
	}

	canonical, resolveErr := resolveExisting(abs)
	if resolveErr != nil {
		// The path does not exist yet: confine against the nearest existing
		// ancestor instead, the way a not-yet-created file still must
		// resolve to inside the sandbox even once its parent directories
		// are created. A missing path outside the sandbox is reported as
		// outside_sandbox; only a missing path inside it is not_found.
		canonical, err = resolveNearestAncestor(abs)
		if err != nil || !g.confined(canonical) {
			return "", &Error{Kind: OutsideSandbox, Path: p}
		}
		if mode == Read {
			return "", &Error{Kind: NotFound, Path: p}
		}
	}

	if !g.confined(canonical) {
		return "", &Error{Kind: OutsideSandbox, Path: p}
	}

	if mode == Write || mode == Edit {
		if g.protectedPaths[canonical] {
			return "", &Error{Kind: Protected, Path: p}
		}
		ext := strings.ToLower(filepath.Ext(canonical))
		if ext != "" && g.blockedWriteExts[ext] {
			return "", &Error{Kind: BlockedExtension, Path: p}
		}
	}

	return canonical, nil
}

// AllowedDirs returns the canonical absolute allowed directories, for tools
// like glob_search that must enumerate within the sandbox rather than
// validate a single candidate path.
func (g *Guard) AllowedDirs() []string {
	return append([]string(nil), g.allowedDirs...)
}

// confined reports whether canonical is equal to or a descendant of some
// entry in allowedDirs. Containment uses the filepath.Rel + ".."-prefix
// idiom.
func (g *Guard) confined(canonical string) bool {
	for _, dir := range g.allowedDirs {
		if canonical == dir {
			return true
		}
		rel, err := filepath.Rel(dir, canonical)
		if err != nil {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return true
	}
	return false
}

// resolveExisting canonicalizes a path that must already exist, following
// symlinks so that a symlink inside the sandbox pointing outside it is
// rejected by the caller's subsequent confinement check rather than
// accepted on its literal, unresolved form.
func resolveExisting(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}

// resolveNearestAncestor walks upward from abs until it finds a directory
// that exists, resolves symlinks on that ancestor, and rejoins the
// not-yet-existing suffix. This closes the same TOCTOU class as
// resolveExisting for paths a write is about to create.
func resolveNearestAncestor(abs string) (string, error) {
	suffix := []string{}
	dir := abs
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			full := resolved
			for i := len(suffix) - 1; i >= 0; i-- {
				full = filepath.Join(full, suffix[i])
			}
			return filepath.Clean(full), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no existing ancestor for %q", abs)
		}
		suffix = append(suffix, filepath.Base(dir))
		dir = parent
	}
}
