package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GlobSearch walks every allowed directory and returns sandbox-relative
// paths matching pattern (a filepath.Match-style glob applied to the whole
// slash-separated relative path, or, when pattern has no '/', also to the
// file's base name; directories themselves are never returned). Only
// the configured allowed directories are ever traversed — glob_search never
// resolves a starting point outside the sandbox.
func (t *Toolset) GlobSearch(pattern string) ([]string, error) {
	var matches []string

	for _, root := range t.Guard.AllowedDirs() {
		ig := loadIgnoreSet(root)

		err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			if ig.excludes(rel) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}

			relSlash := filepath.ToSlash(rel)
			if ok, _ := filepath.Match(pattern, relSlash); ok {
				matches = append(matches, relSlash)
				return nil
			}
			// A pattern with no path separator matches at any depth, the
			// way a bare "*.go" finds files in nested directories too.
			if !strings.Contains(pattern, "/") {
				if ok, _ := filepath.Match(pattern, filepath.Base(relSlash)); ok {
					matches = append(matches, relSlash)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(matches)
	return matches, nil
}
