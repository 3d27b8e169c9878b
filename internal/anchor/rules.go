package anchor

import (
	"regexp"
	"sync"
)

// Rule is a single declarative trigger-detection rule: an ID, a regex
// pattern, and a tag describing the injection category it targets. It
// carries yaml tags, but the runtime builds its rule set from DefaultRules;
// nothing in this repository loads rules from a YAML file.
type Rule struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`
	Tag     string `yaml:"tag"`
}

// DefaultRules is the minimal trigger set named by spec.md §4.D plus the
// supplemented base64-adjacent imperative category. Zero-width characters
// are not matched by a rule here; Anchorer.Process strips them instead.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "TRIG-001", Tag: "role_override", Pattern: `(?i)\bSYSTEM\s*:`},
		{ID: "TRIG-002", Tag: "role_override", Pattern: `(?i)\b(you are now|ignore (all|previous) instructions|disregard (the|your) (above|previous))\b`},
		{ID: "TRIG-003", Tag: "tool_marker", Pattern: `::TOOL\s+\w+\(`},
		{ID: "TRIG-004", Tag: "imperative_override", Pattern: `(?i)\b(do not tell|don't tell|without (telling|informing) the (user|operator))\b`},
		{ID: "TRIG-005", Tag: "git_trailer", Pattern: `(?im)^(Co-authored-by|Execute|Run-command)\s*:\s*\S+`},
		{ID: "TRIG-006", Tag: "base64_imperative", Pattern: `(?i)\b(run|execute|decode and run|eval)\b[^\n]{0,40}[A-Za-z0-9+/]{24,}={0,2}`},
	}
}

// Engine compiles a rule set once and reuses the compiled matchers for
// every scan — "regex-heavy scanning compiles once at boot" per spec.md §9.
type Engine struct {
	mu    sync.Mutex
	rules []compiledRule
}

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// NewEngine compiles rules at construction time. An invalid pattern is a
// boot-time configuration error, not a runtime one.
func NewEngine(rules []Rule) (*Engine, error) {
	e := &Engine{}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, err
		}
		e.rules = append(e.rules, compiledRule{rule: r, re: re})
	}
	return e, nil
}

// Match returns every trigger-rule match found in content.
func (e *Engine) Match(content []byte) []Match {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Match
	for _, cr := range e.rules {
		for _, loc := range cr.re.FindAllIndex(content, -1) {
			out = append(out, Match{RuleID: cr.rule.ID, Tag: cr.rule.Tag, Start: loc[0], End: loc[1]})
		}
	}
	return out
}

// Match describes one trigger-pattern hit in byte-offset terms.
type Match struct {
	RuleID string
	Tag    string
	Start  int
	End    int
}
