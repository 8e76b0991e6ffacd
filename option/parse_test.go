package option

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{"empty", "", map[string]string{"p": "default"}},
		{"blank", "   ", map[string]string{"p": "default"}},
		{
			"processor and pairs",
			"foo,k1=v1,k2=v2",
			map[string]string{"p": "foo", "k1": "v1", "k2": "v2"},
		},
		{
			"quoted value keeps comma",
			`foo,caption="a, b"`,
			map[string]string{"p": "foo", "caption": "a, b"},
		},
		{
			"bare name",
			"mysection",
			map[string]string{"p": "default", "name": "mysection"},
		},
		{
			"quoted bare name",
			`"my section"`,
			map[string]string{"p": "default", "name": "my section"},
		},
		{
			"pairs only",
			"echo=false, term=true",
			map[string]string{"p": "default", "echo": "false", "term": "true"},
		},
		{
			"explicit processor pair",
			"p=table, echo=true",
			map[string]string{"p": "table", "echo": "true"},
		},
		{
			"later duplicate wins",
			"foo,k=1,k=2",
			map[string]string{"p": "foo", "k": "2"},
		},
		{
			"pair overrides leading processor",
			"foo,p=bar",
			map[string]string{"p": "bar"},
		},
		{
			"whitespace trimmed",
			"  foo ,  k1 =  v1 ,k2= v 2  ",
			map[string]string{"p": "foo", "k1": "v1", "k2": "v 2"},
		},
		{
			"quoted key and processor",
			`"my proc", "odd key"="x=y"`,
			map[string]string{"p": "my proc", "odd key": "x=y"},
		},
		{
			"quoted value keeps spaces",
			`foo,caption="  padded  "`,
			map[string]string{"p": "foo", "caption": "  padded  "},
		},
		{
			"trailing comma",
			"foo,k=v,",
			map[string]string{"p": "foo", "k": "v"},
		},
		{
			"empty value",
			"foo,caption=",
			map[string]string{"p": "foo", "caption": ""},
		},
		{
			"single quotes are ordinary",
			"foo,k='a'",
			map[string]string{"p": "foo", "k": "'a'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := Parse(tt.header)

			if len(warnings) != 0 {
				t.Errorf("Parse(%q) warnings: %v", tt.header, warnings)
			}

			if got.Skip() {
				t.Errorf("Parse(%q) marked skip", tt.header)
			}

			if diff := cmp.Diff(tt.want, got.Map()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.header, diff)
			}
		})
	}
}

func TestParse_Skip(t *testing.T) {
	for _, header := range []string{"#", "# p=table", "#foo,k=v", `#"broken`} {
		got, warnings := Parse(header)

		if !got.Skip() {
			t.Errorf("Parse(%q) not marked skip", header)
		}

		if len(warnings) != 0 {
			t.Errorf("Parse(%q) warned on a skipped header: %v", header, warnings)
		}

		if diff := cmp.Diff(map[string]string{"p": "default"}, got.Map()); diff != "" {
			t.Errorf("Parse(%q) parsed past the skip marker:\n%s", header, diff)
		}
	}

	if got, _ := Parse(" #"); got.Skip() {
		t.Error("marker not at the first character still skipped")
	}
}

func TestParse_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		want     map[string]string
		fragment string
		offset   int
	}{
		{
			"bare token after pairs",
			"foo,k1=v1,oops,k2=v2",
			map[string]string{"p": "foo", "k1": "v1"},
			"oops,k2=v2",
			10,
		},
		{
			"unterminated quote",
			`foo,k="open`,
			map[string]string{"p": "foo"},
			`k="open`,
			4,
		},
		{
			"junk after quoted value",
			`foo,k="a"b`,
			map[string]string{"p": "foo", "k": "a"},
			"b",
			9,
		},
		{
			"empty key",
			"foo,=v",
			map[string]string{"p": "foo"},
			"=v",
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := Parse(tt.header)

			if len(warnings) != 1 {
				t.Fatalf("Parse(%q) warnings = %v, want one", tt.header, warnings)
			}

			if warnings[0].Fragment != tt.fragment || warnings[0].Offset != tt.offset {
				t.Errorf("warning = {%q, %d}, want {%q, %d}",
					warnings[0].Fragment, warnings[0].Offset, tt.fragment, tt.offset)
			}

			if diff := cmp.Diff(tt.want, got.Map()); diff != "" {
				t.Errorf("options before the warning lost (-want +got):\n%s", diff)
			}
		})
	}
}
