package processor

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
)

type harness struct {
	reg      *Registry
	store    *namespace.Store
	warnings []string
}

func newHarness(t *testing.T, format string, mutate ...func(*Config)) *harness {
	t.Helper()

	h := &harness{store: namespace.NewStore()}

	cfg := Config{
		Format: format,
		Store:  h.store,
		Warn: func(msg string, _ ...slog.Attr) {
			h.warnings = append(h.warnings, msg)
		},
	}

	for _, fn := range mutate {
		fn(&cfg)
	}

	reg, err := NewRegistry(cfg, Builtin())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	h.reg = reg

	return h
}

func (h *harness) process(t *testing.T, src string, opts map[string]string) Fragment {
	t.Helper()

	frag, err := h.reg.MergeAndProcess(t.Context(), Block{Source: src, Line: 1}, option.From(opts))
	if err != nil {
		t.Fatalf("MergeAndProcess() error = %v", err)
	}

	return frag
}

func TestNewRegistry_Names(t *testing.T) {
	h := newHarness(t, "tex")

	want := []string{
		"autowrap", "chain", "default", "go", "helloworld",
		"highlight", "legacydefault", "table", "yaml",
	}

	if diff := cmp.Diff(want, h.reg.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	for _, name := range want {
		p, ok := h.reg.Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)

			continue
		}

		if p.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, p.Name())
		}
	}
}

func TestNewRegistry_Duplicate(t *testing.T) {
	var c Catalog

	c.Register("default", NewDefault)
	c.Register("default", NewHelloWorld)

	_, err := NewRegistry(Config{}, c)
	if !errors.Is(err, ErrDuplicateProcessor) {
		t.Errorf("NewRegistry() error = %v, want ErrDuplicateProcessor", err)
	}
}

func TestNewRegistry_NoDefault(t *testing.T) {
	var c Catalog

	c.Register("helloworld", NewHelloWorld)

	_, err := NewRegistry(Config{}, c)
	if !errors.Is(err, ErrNoDefault) {
		t.Errorf("NewRegistry() error = %v, want ErrNoDefault", err)
	}
}

func TestMergeAndProcess_UnknownFallsBack(t *testing.T) {
	h := newHarness(t, "md")

	if h.reg.Known("nosuch") {
		t.Error("Known(nosuch) = true")
	}

	frag := h.process(t, "1 + 1\n", map[string]string{"p": "nosuch", "echo": "false"})

	if diff := cmp.Diff([]string{"processor not found; using default"}, h.warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}

	want := Fragment{Doc: "```\n2\n\n```\n", Code: "1 + 1\n"}
	if diff := cmp.Diff(want, frag); diff != "" {
		t.Errorf("fragment mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve(t *testing.T) {
	h := newHarness(t, "md")

	tests := map[string]string{
		"go":      "go",
		"default": "default",
		"nosuch":  "default",
	}

	for name, want := range tests {
		if got := h.reg.Resolve(name).Name(); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", name, got, want)
		}
	}

	if len(h.warnings) != 0 {
		t.Errorf("warnings = %v, want none", h.warnings)
	}

	if _, ok := h.reg.Resolve("go").(Tangler); !ok {
		t.Error("go processor does not declare a tangle extension")
	}
}

func TestMergeAndProcess_RawOptionsWin(t *testing.T) {
	h := newHarness(t, "tex")

	frag := h.process(t, "", map[string]string{"p": "helloworld", "hello_text": "Hi"})

	want := Fragment{Doc: "Hi\n", Code: "println(\"Hi\")\n"}
	if diff := cmp.Diff(want, frag); diff != "" {
		t.Errorf("fragment mismatch (-want +got):\n%s", diff)
	}

	frag = h.process(t, "", map[string]string{"p": "helloworld"})
	if frag.Doc != "Hello World!\n" {
		t.Errorf("Doc = %q, want default hello_text", frag.Doc)
	}
}

func TestMergeAndProcess_LegacyDefault(t *testing.T) {
	h := newHarness(t, "md", func(c *Config) { c.DefaultProcessor = LegacyDefault })

	if !h.reg.Known(option.DefaultProcessor) {
		t.Fatal("seeded processor name is not known")
	}

	// Legacy transcripts only open a code environment for tex.
	frag := h.process(t, "2 * 3\n", map[string]string{"p": "default", "term": "true"})

	if want := "\n>>> 2 * 3\n6\n```\n"; frag.Doc != want {
		t.Errorf("Doc = %q, want %q", frag.Doc, want)
	}
}

func TestMergeAndProcess_NamespaceBinding(t *testing.T) {
	h := newHarness(t, "md")

	h.process(t, "x = 5\n", map[string]string{
		"p": "default", "echo": "false", "namespace": "other",
	})

	if v, ok := h.store.Namespace("other").Get("x"); !ok || v != 5 {
		t.Errorf("other.x = %v, %v; want 5, true", v, ok)
	}

	if _, ok := h.store.Namespace(namespace.Default).Get("x"); ok {
		t.Error("assignment leaked into the default namespace")
	}

	// The binding persists until rebound.
	frag := h.process(t, "x\n", map[string]string{"p": "default", "echo": "false"})
	if want := "```\n5\n\n```\n"; frag.Doc != want {
		t.Errorf("Doc = %q, want %q", frag.Doc, want)
	}

	h.process(t, "", map[string]string{"p": "default", "namespace": namespace.Default})

	p, _ := h.reg.Lookup("default")
	if got := p.(Binder).NamespaceName(); got != namespace.Default {
		t.Errorf("NamespaceName() = %q after rebinding", got)
	}
}

func TestMergeAndProcess_SharedNamespace(t *testing.T) {
	h := newHarness(t, "md")

	h.process(t, "n = 20\n", map[string]string{"p": "default", "echo": "false"})

	frag := h.process(t, "tablerows = [[n, n + 1]]\n", map[string]string{"p": "table"})
	if want := "\n|  |  |\n| --- | --- |\n| 20 | 21 |\n\n"; frag.Doc != want {
		t.Errorf("Doc = %q, want %q", frag.Doc, want)
	}
}

func TestProcessForeign_Unknown(t *testing.T) {
	h := newHarness(t, "tex")

	_, err := h.reg.ProcessForeign(t.Context(), "nosuch", Block{Line: 3}, option.Set{})
	if !errors.Is(err, ErrForeignProcessor) {
		t.Errorf("ProcessForeign() error = %v, want ErrForeignProcessor", err)
	}

	if len(h.warnings) != 0 {
		t.Errorf("unexpected warnings %v", h.warnings)
	}
}

func TestMarkupFor(t *testing.T) {
	for f := range Formats() {
		m, err := MarkupFor(f)
		if err != nil {
			t.Errorf("MarkupFor(%q) error = %v", f, err)

			continue
		}

		if m.Format != f || m.Escape == nil {
			t.Errorf("MarkupFor(%q) = %+v", f, m)
		}
	}

	if _, err := MarkupFor("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("MarkupFor(docx) error = %v, want ErrUnknownFormat", err)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"tex":    ".tex",
		"rst":    ".rst",
		"sphinx": ".rst",
		"md":     ".md",
		"HTML":   ".html",
	}

	for format, want := range tests {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}
