package tools

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ignoreSet holds the gitignore-style patterns applicable under one sandbox
// root, loaded once per glob/grep call. The matching rules (exact name,
// wildcard via filepath.Match, directory-only trailing slash, negation) are
// adapted from the teacher's discovery package, generalized from "skip this
// file when inventorying artifacts" to "skip this file when enumerating
// sandbox contents for a tool call".
type ignoreSet struct {
	patterns []string
}

func loadIgnoreSet(root string) *ignoreSet {
	var patterns []string
	for _, name := range []string{".gitignore", ".sentinelignore"} {
		patterns = append(patterns, readIgnoreFile(filepath.Join(root, name))...)
	}
	return &ignoreSet{patterns: patterns}
}

func readIgnoreFile(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// excludes reports whether rel (slash-separated, relative to the walk root)
// should be skipped. The .git directory is always excluded.
func (s *ignoreSet) excludes(rel string) bool {
	if hasPathSegment(rel, ".git") {
		return true
	}

	excluded := false
	for _, pattern := range s.patterns {
		negate := strings.HasPrefix(pattern, "!")
		p := strings.TrimPrefix(pattern, "!")
		if matchesIgnorePattern(rel, p) {
			excluded = !negate
		}
	}
	return excluded
}

func hasPathSegment(path, segment string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == segment {
			return true
		}
	}
	return false
}

func matchesIgnorePattern(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	dirOnly := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")

	if strings.Contains(pattern, "/") || dirOnly {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		return strings.HasPrefix(path, pattern+"/") || path == pattern
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		matched, _ := filepath.Match(pattern, part)
		if !matched {
			continue
		}
		if dirOnly && i == len(parts)-1 {
			continue
		}
		return true
	}
	return false
}
