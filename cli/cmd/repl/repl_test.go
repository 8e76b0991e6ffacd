package repl

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/weft/log"
	"github.com/ardnew/weft/namespace"
)

func testModel(t *testing.T, store *namespace.Store) model {
	t.Helper()

	if store == nil {
		store = namespace.NewStore()
	}

	cfg := Config{
		Store:     store,
		Namespace: namespace.Default,
		Logger:    log.Make(io.Discard),
	}

	return newModel(t.Context(), cfg, NewHistory(""))
}

func enter(m model, line string) model {
	m.input.SetValue(line)
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	return m
}

func TestModel_Evaluate(t *testing.T) {
	m := testModel(t, nil)

	if out, err := m.evaluate("x = 2", namespace.ModeAuto); err != nil || out != "" {
		t.Fatalf("evaluate(x = 2) = %q, %v", out, err)
	}

	if out, err := m.evaluate("x * 3", namespace.ModeAuto); err != nil || out != "6" {
		t.Fatalf("evaluate(x * 3) = %q, %v, want 6", out, err)
	}

	if _, err := m.evaluate("undefined_fn(", namespace.ModeAuto); err == nil {
		t.Fatal("evaluate(invalid) succeeded")
	}

	if diff := cmp.Diff([]string{"x = 2", "x * 3"}, m.transcript); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_Submit(t *testing.T) {
	m := enter(testModel(t, nil), "  y = 5  ")

	if v, ok := m.ns.Get("y"); !ok || v != 5 {
		t.Errorf("y = %v, %v, want 5", v, ok)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after submit", m.input.Value())
	}

	want := []Entry{{"y = 5", modeEval}}
	if diff := cmp.Diff(want, m.history.Entries()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
}

func TestModel_Use(t *testing.T) {
	store := namespace.NewStore()
	m := testModel(t, store)

	m = m.switchTo(modeCtrl)
	m = enter(m, "use scratch")

	if got := m.ns.Name(); got != "scratch" {
		t.Errorf("namespace = %q, want scratch", got)
	}

	if !store.Has("scratch") {
		t.Error("store lacks namespace scratch")
	}

	if !strings.Contains(m.listing(), "* scratch") {
		t.Errorf("listing() = %q", m.listing())
	}
}

func TestModel_Quit(t *testing.T) {
	m := testModel(t, nil).switchTo(modeCtrl)

	m = enter(m, "quit")
	if !m.quitting {
		t.Error("quit did not end the session")
	}

	if m.View() != "" {
		t.Errorf("View() = %q after quit", m.View())
	}
}

func TestModel_Drafts(t *testing.T) {
	m := testModel(t, nil)

	m.input.SetValue("1 + ")
	m = m.switchTo(modeCtrl)

	if m.input.Value() != "" {
		t.Errorf("ctrl input = %q, want empty", m.input.Value())
	}

	m.input.SetValue("li")
	m = m.switchTo(modeEval)

	if got := m.input.Value(); got != "1 + " {
		t.Errorf("eval draft = %q, want %q", got, "1 + ")
	}

	m = m.switchTo(modeCtrl)
	if got := m.input.Value(); got != "li" {
		t.Errorf("ctrl draft = %q, want li", got)
	}
}

func TestModel_CompleteCtrl(t *testing.T) {
	m := testModel(t, nil).switchTo(modeCtrl)

	m.input.SetValue("qu")
	m.input.SetCursor(2)
	m.refresh(false)

	if len(m.matches) != 1 || m.matches[0].Str != "quit" {
		t.Fatalf("matches = %v, want [quit]", m.matches)
	}

	m = m.cycle(+1)
	if got := m.input.Value(); got != "quit" {
		t.Errorf("input = %q, want quit", got)
	}
}

func TestModel_Save(t *testing.T) {
	m := testModel(t, nil)
	m = enter(m, "x = 2")
	m = enter(m, "x + 1")

	path := filepath.Join(t.TempDir(), "session.expr")
	if err := m.save(path); err != nil {
		t.Fatalf("save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "x = 2\nx + 1\n" {
		t.Errorf("saved = %q", got)
	}

	m = m.switchTo(modeCtrl)
	m = enter(m, "save "+filepath.Join(t.TempDir(), "missing", "x.expr"))

	if m.quitting {
		t.Error("failed save ended the session")
	}
}

func TestPreview(t *testing.T) {
	if got := preview(3); got != "= 3 (int)" {
		t.Errorf("preview(3) = %q", got)
	}

	long := strings.Repeat("a", 60)
	if got := preview(long); !strings.HasPrefix(got, "= "+strings.Repeat("a", 37)+"...") {
		t.Errorf("preview(long) = %q", got)
	}
}
