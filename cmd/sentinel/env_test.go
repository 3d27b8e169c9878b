package main

import (
	"testing"

	"github.com/nox-hq/sentinel/internal/config"
)

func TestBuildSandboxEnv_ResolvesToAbsolutePaths(t *testing.T) {
	env, err := buildSandboxEnv([]string{"ls", "cat", "does-not-exist-anywhere"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env) == 0 || env[0][:5] != "PATH=" {
		t.Fatalf("expected env[0] to be a PATH entry, got %v", env)
	}
}

func TestBuildSandboxEnv_NoneResolve(t *testing.T) {
	_, err := buildSandboxEnv([]string{"does-not-exist-anywhere", "also-missing"})
	if err == nil {
		t.Fatal("expected an error when no allowlisted command resolves")
	}
}

func TestWithTrustRootProtection_AddsManifestAndTrustRoots(t *testing.T) {
	cfg := &config.Config{
		Integrity: config.IntegritySettings{
			ManifestPath: "manifest.json",
			TrustRoots:   []string{"root-a.go", "root-b.go"},
		},
	}

	got := withTrustRootProtection([]string{"operator-path.txt"}, cfg)

	want := map[string]bool{"operator-path.txt": true, "manifest.json": true, "root-a.go": true, "root-b.go": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d protected paths, got %d: %v", len(want), len(got), got)
	}
	for _, p := range got {
		if !want[p] {
			t.Fatalf("unexpected protected path %q", p)
		}
	}
}

func TestWithTrustRootProtection_DedupesAndDefaultsManifestPath(t *testing.T) {
	cfg := &config.Config{
		Integrity: config.IntegritySettings{TrustRoots: []string{"root-a.go"}},
	}

	got := withTrustRootProtection([]string{"root-a.go"}, cfg)

	count := 0
	for _, p := range got {
		if p == "root-a.go" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected root-a.go to appear once, got %d times in %v", count, got)
	}

	foundDefault := false
	for _, p := range got {
		if p == "sentinel-manifest.json" {
			foundDefault = true
		}
	}
	if !foundDefault {
		t.Fatalf("expected default manifest path to be added, got %v", got)
	}
}
