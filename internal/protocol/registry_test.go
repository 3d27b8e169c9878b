package protocol

import (
	"context"
	"testing"

	"github.com/nox-hq/sentinel/internal/tools"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{
		Name:  "file_read",
		Class: tools.Read,
		Handler: func(ctx context.Context, call Call) (any, error) {
			return "contents", nil
		},
	})
	r.Freeze()

	tool, ok := r.Lookup("file_read")
	if !ok {
		t.Fatalf("expected file_read to be registered")
	}
	if tool.Class != tools.Read {
		t.Fatalf("expected Read capability, got %v", tool.Class)
	}
}

func TestRegistry_LookupUnknownFails(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	if _, ok := r.Lookup("nonexistent"); ok {
		t.Fatalf("expected lookup miss")
	}
}

func TestRegistry_RegisterAfterFreezePanics(t *testing.T) {
	r := NewRegistry()
	r.Freeze()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on Register after Freeze")
		}
	}()
	r.Register(Tool{Name: "late"})
}

func TestRegistry_DuplicateRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{Name: "dup"})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate Register")
		}
	}()
	r.Register(Tool{Name: "dup"})
}

func TestRegistry_NamesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{Name: "grep_search"})
	r.Register(Tool{Name: "bash_exec"})
	r.Register(Tool{Name: "file_read"})

	got := r.Names()
	want := []string{"bash_exec", "file_read", "grep_search"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
