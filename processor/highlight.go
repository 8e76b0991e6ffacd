package processor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/ardnew/weft/option"
)

// Highlight includes the block in the document without executing it. With
// the html format the block is syntax highlighted with CSS classes; other
// formats get a code environment naming the language where the markup
// allows it.
//
// Options:
//
//	lang          language of the block; guessed from the source when empty
//	style=github  chroma style used for inline colors (classes=false)
//	classes=true  emit CSS classes instead of inline styles (html)
//	lines=false   number the lines (html)
//	tangle=false  also append the block to the tangled code
type Highlight struct {
	Base
}

// NewHighlight returns the "highlight" processor.
func NewHighlight(b Base) Processor { return &Highlight{Base: b} }

func (h *Highlight) Name() string { return "highlight" }

func (h *Highlight) Defaults() option.Set {
	return option.From(map[string]string{
		"lang":    "",
		"style":   "github",
		"classes": "true",
		"lines":   "false",
		"tangle":  "false",
	})
}

func (h *Highlight) Process(_ context.Context, block Block, opts option.Set) (Fragment, error) {
	mk, err := h.Markup()
	if err != nil {
		return Fragment{}, err
	}

	lexer := h.lexer(block, opts.Get("lang"))
	lang := strings.ToLower(lexer.Config().Name)

	var doc string

	switch mk.Format {
	case "html":
		doc, err = h.html(block, lexer, opts)
		if err != nil {
			return Fragment{}, err
		}
	case "md":
		doc = fenced("```"+lang+"\n", "```\n", "", identity, block.Source)
	case "rst", "sphinx":
		doc = fenced("\n.. code-block:: "+lang+"\n\n", "\n", mk.CodeIndent, identity, block.Source)
	default:
		doc = fenced(mk.CodeStart, mk.CodeEnd, mk.CodeIndent, mk.Escape, block.Source)
	}

	var code string
	if opts.Bool("tangle") {
		code = block.Source
	}

	return Fragment{Doc: doc, Code: code}, nil
}

// lexer resolves lang, falling back to analysis of the source and then to
// plain text.
func (h *Highlight) lexer(block Block, lang string) chroma.Lexer {
	var l chroma.Lexer

	if lang != "" {
		if l = lexers.Get(lang); l == nil {
			h.Warn("unknown highlight language",
				slog.String("lang", lang),
				slog.Int("line", block.Line),
			)
		}
	}

	if l == nil {
		l = lexers.Analyse(block.Source)
	}

	if l == nil {
		l = lexers.Fallback
	}

	return chroma.Coalesce(l)
}

func (h *Highlight) html(block Block, lexer chroma.Lexer, opts option.Set) (string, error) {
	formatter := chromahtml.New(
		chromahtml.WithClasses(opts.Bool("classes")),
		chromahtml.WithLineNumbers(opts.Bool("lines")),
	)

	it, err := lexer.Tokenise(nil, block.Source)
	if err != nil {
		return "", ErrHighlight.Wrap(err).With(slog.Int("line", block.Line))
	}

	var sb strings.Builder

	if err := formatter.Format(&sb, styles.Get(opts.Get("style")), it); err != nil {
		return "", ErrHighlight.Wrap(err).With(slog.Int("line", block.Line))
	}

	sb.WriteString("\n")

	return sb.String(), nil
}

func fenced(start, end, indent string, escape func(string) string, src string) string {
	var sb strings.Builder

	sb.WriteString(start)

	for _, line := range lines(src) {
		sb.WriteString(indent + escape(line) + "\n")
	}

	sb.WriteString(end)

	return sb.String()
}
