package integrity

import (
	"os"
	"testing"
	"time"
)

func TestVerify_UnmodifiedTrustRootPasses(t *testing.T) {
	dir := t.TempDir()
	f := writeFixture(t, dir, "f.go", "package f")

	m, err := Generate([]string{f}, "passphrase", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	result := NewVerifier().Verify(m, "passphrase")
	if !result.OK() {
		t.Fatalf("expected OK, got %+v", result)
	}
}

func TestVerify_TamperedFileDetected(t *testing.T) {
	// Scenario 6 of spec.md §8: mutate one byte of a trust-root file after
	// manifest generation; verification must name the file and fail.
	dir := t.TempDir()
	f := writeFixture(t, dir, "f.go", "package f")

	m, err := Generate([]string{f}, "passphrase", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if err := os.WriteFile(f, []byte("package g"), 0o644); err != nil {
		t.Fatalf("mutating fixture: %v", err)
	}

	result := NewVerifier().Verify(m, "passphrase")
	if result.OK() {
		t.Fatalf("expected verification to fail after tamper")
	}

	found := false
	for _, v := range result.Violations {
		if v.Path == f {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected violation naming %q, got %+v", f, result.Violations)
	}
}

func TestVerify_WrongPassphraseFailsHMAC(t *testing.T) {
	dir := t.TempDir()
	f := writeFixture(t, dir, "f.go", "package f")

	m, err := Generate([]string{f}, "correct", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	result := NewVerifier().Verify(m, "wrong")
	if result.HMACValid {
		t.Fatalf("expected HMAC mismatch with wrong passphrase")
	}
}

func TestVerify_MissingFileReportsViolation(t *testing.T) {
	dir := t.TempDir()
	f := writeFixture(t, dir, "f.go", "package f")

	m, err := Generate([]string{f}, "passphrase", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	os.Remove(f)

	result := NewVerifier().Verify(m, "passphrase")
	if result.OK() {
		t.Fatalf("expected violation for missing trust-root file")
	}
}
