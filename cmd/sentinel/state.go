package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// OverrideRecord persists one operator-granted permission override so a
// decision made in a prior session ("always allow bash_exec") survives a
// reboot, the same way the teacher's InstalledPlugin records a decision
// (trust level) made once and reused across invocations.
type OverrideRecord struct {
	Tool      string    `json:"tool"`
	Decision  string    `json:"decision"`
	GrantedAt time.Time `json:"granted_at"`
}

// State persists operator permission overrides across sentinel invocations.
type State struct {
	Overrides []OverrideRecord `json:"overrides"`
}

// SetOverride adds or updates an override by tool name.
func (s *State) SetOverride(tool, decision string, at time.Time) {
	for i := range s.Overrides {
		if s.Overrides[i].Tool == tool {
			s.Overrides[i].Decision = decision
			s.Overrides[i].GrantedAt = at
			return
		}
	}
	s.Overrides = append(s.Overrides, OverrideRecord{Tool: tool, Decision: decision, GrantedAt: at})
}

// LoadState reads state from path. Returns a zero State if the file does
// not exist yet — a fresh sentinel home has no prior overrides to apply.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveState writes state to path atomically: temp file, then rename, so a
// crash mid-write never leaves a half-written state file for the next boot
// to load.
func SaveState(path string, s *State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// DefaultStatePath returns the default state file path, respecting
// SENTINEL_HOME the way the teacher's DefaultStatePath respects NOX_HOME.
func DefaultStatePath() string {
	return filepath.Join(sentinelHome(), "state.json")
}

func sentinelHome() string {
	if h := os.Getenv("SENTINEL_HOME"); h != "" {
		return h
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sentinel")
}
