package pathguard

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestGuard(t *testing.T, root string) *Guard {
	t.Helper()
	g, err := New([]string{root}, nil, []string{".sh", ".bat", ".ps1", ".exe"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestValidate_AcceptsDescendant(t *testing.T) {
	root := t.TempDir()
	f := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(f, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	g := newTestGuard(t, root)

	got, err := g.Validate(f, Read)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "" {
		t.Fatal("expected non-empty canonical path")
	}
}

func TestValidate_RejectsOutsideSandbox(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	g := newTestGuard(t, root)

	_, err := g.Validate(filepath.Join(outside, "x.txt"), Read)
	assertKind(t, err, OutsideSandbox)
}

func TestValidate_SymlinkEscapeRejected(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	outsideFile := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(outsideFile, []byte("s"), 0o644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(outsideFile, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	g := newTestGuard(t, root)
	_, err := g.Validate(link, Read)
	assertKind(t, err, OutsideSandbox)
}

func TestValidate_BlockedExtensionOnWrite(t *testing.T) {
	root := t.TempDir()
	g := newTestGuard(t, root)

	_, err := g.Validate(filepath.Join(root, "helper.sh"), Write)
	assertKind(t, err, BlockedExtension)
}

func TestValidate_ProtectedPath(t *testing.T) {
	root := t.TempDir()
	protected := filepath.Join(root, "manifest.json")
	g, err := New([]string{root}, []string{protected}, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = g.Validate(protected, Write)
	assertKind(t, err, Protected)
}

func TestValidate_NotYetExistingWriteTarget(t *testing.T) {
	root := t.TempDir()
	g := newTestGuard(t, root)

	got, err := g.Validate(filepath.Join(root, "new", "file.txt"), Write)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "" {
		t.Fatal("expected non-empty canonical path")
	}
}

func TestValidate_NotFoundOnRead(t *testing.T) {
	root := t.TempDir()
	g := newTestGuard(t, root)

	_, err := g.Validate(filepath.Join(root, "missing.txt"), Read)
	assertKind(t, err, NotFound)
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	pe, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if pe.Kind != want {
		t.Fatalf("expected error kind %q, got %q", want, pe.Kind)
	}
}
