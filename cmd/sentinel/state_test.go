package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadState_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")
	st, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState missing file: %v", err)
	}
	if len(st.Overrides) != 0 {
		t.Fatal("expected empty state for missing file")
	}
}

func TestState_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subdir", "state.json")

	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	original := &State{
		Overrides: []OverrideRecord{
			{Tool: "bash_exec", Decision: "allow", GrantedAt: now},
		},
	}

	if err := SaveState(path, original); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if len(loaded.Overrides) != 1 || loaded.Overrides[0].Tool != "bash_exec" {
		t.Fatalf("overrides mismatch: got %+v", loaded.Overrides)
	}
	if loaded.Overrides[0].Decision != "allow" {
		t.Fatalf("decision = %q, want %q", loaded.Overrides[0].Decision, "allow")
	}
}

func TestLoadState_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{invalid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestState_SetOverrideUpsert(t *testing.T) {
	st := &State{}
	now := time.Now()

	st.SetOverride("bash_exec", "ask", now)
	st.SetOverride("file_write", "allow", now)
	st.SetOverride("bash_exec", "allow", now.Add(time.Minute))

	if len(st.Overrides) != 2 {
		t.Fatalf("expected 2 overrides, got %d", len(st.Overrides))
	}

	var found OverrideRecord
	for _, ov := range st.Overrides {
		if ov.Tool == "bash_exec" {
			found = ov
		}
	}
	if found.Decision != "allow" {
		t.Fatalf("expected bash_exec override upserted to allow, got %q", found.Decision)
	}
}

func TestDefaultStatePath_SentinelHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SENTINEL_HOME", dir)

	path := DefaultStatePath()
	expected := filepath.Join(dir, "state.json")
	if path != expected {
		t.Errorf("DefaultStatePath = %q, want %q", path, expected)
	}
}

func TestSaveState_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	st := &State{Overrides: []OverrideRecord{{Tool: "a", Decision: "allow"}}}
	if err := SaveState(path, st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	tmp := path + ".tmp"
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Error("temp file should not exist after successful save")
	}
}
