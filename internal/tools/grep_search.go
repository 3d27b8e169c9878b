package tools

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nox-hq/sentinel/internal/pathguard"
)

// GrepMatch is one line matching a grep_search pattern.
type GrepMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// GrepSearchResult is the data payload a successful grep_search call
// returns; Content is the anchored, trigger-scanned rendering of Matches.
type GrepSearchResult struct {
	Content string      `json:"content"`
	Matches []GrepMatch `json:"-"`
}

// GrepSearch compiles pattern as a regular expression and scans every file
// under root (or every allowed directory if root is empty) for matching
// lines. trusted reports whether every matched file is on the session's
// trusted list — the Open Question resolution recorded in DESIGN.md: a
// grep hit inside even one untrusted file taints the whole result.
func (t *Toolset) GrepSearch(pattern, root string) (result GrepSearchResult, trusted bool, err error) {
	re, compileErr := regexp.Compile(pattern)
	if compileErr != nil {
		return GrepSearchResult{}, false, fmt.Errorf("grep_search: invalid pattern: %w", compileErr)
	}

	roots := t.Guard.AllowedDirs()
	if root != "" {
		canonical, verr := t.Guard.Validate(root, pathguard.Read)
		if verr != nil {
			return GrepSearchResult{}, false, verr
		}
		roots = []string{canonical}
	}

	allTrusted := true
	var matches []GrepMatch

	for _, r := range roots {
		ig := loadIgnoreSet(r)
		walkErr := filepath.Walk(r, func(path string, info os.FileInfo, werr error) error {
			if werr != nil {
				return werr
			}
			rel, relErr := filepath.Rel(r, path)
			if relErr != nil {
				return relErr
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
			if info.IsDir() || !info.Mode().IsRegular() {
				return nil
			}

			fileMatches, fileErr := grepFile(path, re)
			if fileErr != nil {
				return nil // unreadable file (binary, permissions): skip, don't fail the whole search
			}
			if len(fileMatches) > 0 && !t.IsTrusted(path) {
				allTrusted = false
			}
			for _, m := range fileMatches {
				m.Path = filepath.ToSlash(rel)
				matches = append(matches, m)
			}
			return nil
		})
		if walkErr != nil {
			return GrepSearchResult{}, false, walkErr
		}
	}

	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "%s:%d:%s\n", m.Path, m.Line, m.Text)
	}

	content := b.String()
	if !allTrusted {
		content = t.Anchor.Process(content, "grep_search:"+pattern)
	}

	return GrepSearchResult{Content: content, Matches: matches}, allTrusted, nil
}

func grepFile(path string, re *regexp.Regexp) ([]GrepMatch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var matches []GrepMatch
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if re.MatchString(line) {
			matches = append(matches, GrepMatch{Line: lineNo, Text: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}
