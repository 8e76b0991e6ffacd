package repl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}

	for _, e := range []Entry{
		{"x = 1", modeEval},
		{"list", modeCtrl},
		{"x + 1", modeEval},
		{"x + 1", modeEval},
		{"x = 1", modeEval},
		{"  ", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q) error = %v", e.Line, err)
		}
	}

	want := []Entry{
		{"list", modeCtrl},
		{"x + 1", modeEval},
		{"x = 1", modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "C:list\nE:x + 1\nE:x = 1\n" {
		t.Errorf("history file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_At(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("quit", modeCtrl); err != nil {
		t.Fatal(err)
	}

	if e, err := h.At(0); err != nil || e != (Entry{"quit", modeCtrl}) {
		t.Errorf("At(0) = %+v, %v", e, err)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.At(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}
}

func TestHistory_LegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	if err := os.WriteFile(path, []byte("1 + 1\n\nC:help\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []Entry{{"1 + 1", modeEval}, {"help", modeCtrl}}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}
