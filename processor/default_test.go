package processor

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
)

func TestDefault_Render(t *testing.T) {
	tests := []struct {
		name   string
		format string
		src    string
		opts   map[string]string
		want   string
	}{
		{
			name:   "tex echo and result",
			format: "tex",
			src:    "1 + 1\n",
			want: "\\begin{verbatim}\n1 + 1\n\\end{verbatim}\n" +
				"\\begin{verbatim}\n2\n\n\\end{verbatim}\n",
		},
		{
			name:   "rst indents code",
			format: "rst",
			src:    "println(\"hi\")\n",
			want:   "::\n\n  println(\"hi\")\n\n\n::\n\n  hi\n\n\n\n",
		},
		{
			name:   "assignments print nothing",
			format: "md",
			src:    "a = 1\nb = a + 1\n",
			want:   "```\na = 1\nb = a + 1\n```\n",
		},
		{
			name:   "block prints side effects only",
			format: "md",
			src:    "a = 2\na * 10\nprintln(a)\n",
			opts:   map[string]string{"echo": "false"},
			want:   "```\n2\n\n```\n",
		},
		{
			name:   "results hidden",
			format: "md",
			src:    "println(\"hidden\")\n",
			opts:   map[string]string{"results": "hide"},
			want:   "```\nprintln(\"hidden\")\n```\n",
		},
		{
			name:   "raw results",
			format: "md",
			src:    "print(\"**bold**\")\n",
			opts:   map[string]string{"echo": "false", "results": "md"},
			want:   "**bold**\n\n",
		},
		{
			name:   "not evaluated",
			format: "md",
			src:    "println(\"never\")\n",
			opts:   map[string]string{"evaluate": "false"},
			want:   "```\nprintln(\"never\")\n```\n",
		},
		{
			name:   "html escapes",
			format: "html",
			src:    "\"<b>\"\n",
			want: "<pre><code>&#34;&lt;b&gt;&#34;\n</code></pre>\n" +
				"<pre class=\"output\">&lt;b&gt;\n\n</pre>\n",
		},
		{
			name:   "transcript",
			format: "md",
			src:    "x = 3\nx * 2\n",
			opts:   map[string]string{"term": "true"},
			want:   "\n```\n>>> x = 3\n>>> x * 2\n6\n```\n",
		},
		{
			name:   "transcript without evaluation",
			format: "tex",
			src:    "x * 2\n",
			opts:   map[string]string{"term": "true", "evaluate": "false"},
			want:   "\n\\begin{verbatim}\n>>> x * 2\n\\end{verbatim}\n",
		},
		{
			name:   "explicit block mode",
			format: "md",
			src:    "\"quiet\"\n",
			opts:   map[string]string{"echo": "false", "mode": "block"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.format)

			opts := map[string]string{"p": "default"}
			for k, v := range tt.opts {
				opts[k] = v
			}

			frag := h.process(t, tt.src, opts)

			if diff := cmp.Diff(tt.want, frag.Doc); diff != "" {
				t.Errorf("Doc mismatch (-want +got):\n%s", diff)
			}

			if frag.Code != tt.src {
				t.Errorf("Code = %q, want source %q", frag.Code, tt.src)
			}
		})
	}
}

func TestDefault_LegacyIgnoresHide(t *testing.T) {
	h := newHarness(t, "md")

	frag := h.process(t, "println(\"shown\")\n", map[string]string{
		"p": LegacyDefault, "echo": "false", "results": "hide",
	})

	if want := "shown\n\n"; frag.Doc != want {
		t.Errorf("Doc = %q, want %q", frag.Doc, want)
	}
}

func TestDefault_FigureWarns(t *testing.T) {
	h := newHarness(t, "tex")

	h.process(t, "", map[string]string{"p": "default", "fig": "true"})

	if diff := cmp.Diff([]string{"figure output is not supported"}, h.warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_ExecuteError(t *testing.T) {
	h := newHarness(t, "tex")

	_, err := h.reg.MergeAndProcess(t.Context(), Block{Source: "missing + 1\n", Line: 7},
		option.From(map[string]string{"p": "default"}))

	if !errors.Is(err, ErrExecute) {
		t.Errorf("error = %v, want ErrExecute", err)
	}

	if !errors.Is(err, namespace.ErrCompile) {
		t.Errorf("error = %v, want wrapped namespace.ErrCompile", err)
	}
}

func TestDefault_UnknownMode(t *testing.T) {
	h := newHarness(t, "tex")

	_, err := h.reg.MergeAndProcess(t.Context(), Block{Source: "1\n", Line: 1},
		option.From(map[string]string{"p": "default", "mode": "sometimes"}))

	if !errors.Is(err, namespace.ErrUnknownMode) {
		t.Errorf("error = %v, want ErrUnknownMode", err)
	}
}

func TestGo_Render(t *testing.T) {
	h := newHarness(t, "md")

	src := "import \"fmt\"\nfmt.Println(6 * 7)\n"

	frag := h.process(t, src, map[string]string{"p": "go", "echo": "false"})

	want := Fragment{Doc: "```\n42\n\n```\n", Code: src}
	if diff := cmp.Diff(want, frag); diff != "" {
		t.Errorf("fragment mismatch (-want +got):\n%s", diff)
	}

	// Declarations persist in the namespace's interpreter.
	h.process(t, "answer := 40\n", map[string]string{"p": "go", "echo": "false"})

	frag = h.process(t, "answer + 2\n", map[string]string{"p": "go", "term": "true"})
	if want := "\n```\n>>> answer + 2\n42\n```\n"; frag.Doc != want {
		t.Errorf("Doc = %q, want %q", frag.Doc, want)
	}
}

func TestGo_RenderImportBlock(t *testing.T) {
	src := "import \"strings\"\nstrings.ToUpper(\"loud\")\n"

	tests := []struct {
		name    string
		opts    map[string]string
		wantDoc string
	}{
		{
			name:    "whole block",
			opts:    map[string]string{"p": "go", "echo": "false"},
			wantDoc: "```\nLOUD\n\n```\n",
		},
		{
			name:    "transcript",
			opts:    map[string]string{"p": "go", "term": "true"},
			wantDoc: "\n```\n>>> import \"strings\"\n>>> strings.ToUpper(\"loud\")\nLOUD\n```\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "md")

			frag := h.process(t, src, tt.opts)

			want := Fragment{Doc: tt.wantDoc, Code: src}
			if diff := cmp.Diff(want, frag); diff != "" {
				t.Errorf("fragment mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", nil},
		{"a", []string{"a"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\n\nb\n", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, lines(tt.in)); diff != "" {
			t.Errorf("lines(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
