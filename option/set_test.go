package option

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet_Merge(t *testing.T) {
	defaults := From(map[string]string{"echo": "true", "results": "verbatim"})
	raw, _ := Parse("default, echo=false, caption=x")

	got := raw.Merge(defaults)

	want := map[string]string{
		"p":       "default",
		"echo":    "false",
		"results": "verbatim",
		"caption": "x",
	}

	if diff := cmp.Diff(want, got.Map()); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}

	if defaults.Get("echo") != "true" {
		t.Error("Merge modified the defaults")
	}
}

func TestSet_MergeKeepsSkip(t *testing.T) {
	raw, _ := Parse("#")

	if !raw.Merge(From(map[string]string{"a": "b"})).Skip() {
		t.Error("Merge dropped the skip marker")
	}
}

func TestSet_ZeroValue(t *testing.T) {
	var s Set

	if s.Get("x") != "" || s.Len() != 0 || s.Skip() {
		t.Error("zero set not empty")
	}

	if s.With("k", "v").Get("k") != "v" {
		t.Error("With on zero set failed")
	}

	if got := s.Merge(Set{}).Len(); got != 0 {
		t.Errorf("merged zero sets have %d keys", got)
	}
}

func TestSet_WithIsCopy(t *testing.T) {
	a := From(map[string]string{"k": "1"})
	b := a.With("k", "2")

	if a.Get("k") != "1" || b.Get("k") != "2" {
		t.Errorf("With aliased the receiver: a=%q b=%q", a.Get("k"), b.Get("k"))
	}
}

func TestSet_Bool(t *testing.T) {
	s := From(map[string]string{"a": "True", "b": " true ", "c": "yes", "d": "false"})

	for key, want := range map[string]bool{"a": true, "b": true, "c": false, "d": false, "e": false} {
		if got := s.Bool(key); got != want {
			t.Errorf("Bool(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestSet_Accessors(t *testing.T) {
	s, _ := Parse("mysection")

	if s.Processor() != DefaultProcessor {
		t.Errorf("Processor() = %q", s.Processor())
	}

	if s.BlockName() != "mysection" {
		t.Errorf("BlockName() = %q", s.BlockName())
	}

	if diff := cmp.Diff([]string{"name", "p"}, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	if v, ok := s.Lookup("missing"); ok || v != "" {
		t.Errorf("Lookup(missing) = %q, %v", v, ok)
	}
}

func TestSet_StringRoundTrip(t *testing.T) {
	headers := []string{
		`table, caption="a, b", echo=true`,
		`p=default, "odd key"=" spaced "`,
		"x=",
	}

	for _, header := range headers {
		first, _ := Parse(header)

		second, warnings := Parse(first.String())
		if len(warnings) != 0 {
			t.Fatalf("String() %q does not parse: %v", first.String(), warnings)
		}

		if diff := cmp.Diff(first.Map(), second.Map()); diff != "" {
			t.Errorf("round trip of %q via %q (-want +got):\n%s", header, first.String(), diff)
		}
	}
}

func TestSet_LogValue(t *testing.T) {
	s, _ := Parse("foo,b=2,a=1")

	got := s.LogValue().Group()
	want := []slog.Attr{
		slog.String("a", "1"),
		slog.String("b", "2"),
		slog.String("p", "foo"),
	}

	if len(got) != len(want) {
		t.Fatalf("LogValue() = %v", got)
	}

	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("attr %d = %v, want %v", i, got[i], want[i])
		}
	}
}
