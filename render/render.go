// Package render converts woven Markdown into standalone HTML pages.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ardnew/weft/fault"
)

// Error is the structured error type returned by this package.
type Error = fault.Error

// ErrConvert indicates the Markdown could not be converted.
var ErrConvert = fault.New("convert markdown")

const page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>
`

// Converter renders Markdown with GFM tables, footnotes and highlighted
// code fences.
type Converter struct {
	md    goldmark.Markdown
	title string
}

type config struct {
	title     string
	unsafe    bool
	hardWraps bool
}

// Option configures a [Converter].
type Option func(*config)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithRawHTML passes HTML embedded in the Markdown through unchanged.
// Processors emitting markup for md documents rely on it.
func WithRawHTML(enable bool) Option {
	return func(c *config) { c.unsafe = enable }
}

// WithHardWraps renders every newline as a line break.
func WithHardWraps(enable bool) Option {
	return func(c *config) { c.hardWraps = enable }
}

// NewConverter returns a Converter. Raw HTML is passed through unless
// disabled.
func NewConverter(opts ...Option) *Converter {
	cfg := config{title: "Document", unsafe: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	gmOpts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}

	var htmlOpts []renderer.Option
	if cfg.unsafe {
		htmlOpts = append(htmlOpts, gmhtml.WithUnsafe())
	}

	if cfg.hardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}

	if len(htmlOpts) > 0 {
		gmOpts = append(gmOpts, goldmark.WithRendererOptions(htmlOpts...))
	}

	md := goldmark.New(gmOpts...)

	return &Converter{md: md, title: cfg.title}
}

// Fragment converts markdown to an HTML fragment.
func (c *Converter) Fragment(markdown string) (string, error) {
	var buf bytes.Buffer

	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", ErrConvert.Wrap(err)
	}

	return buf.String(), nil
}

// ToHTML converts markdown to a complete HTML5 page. Conversion cannot be
// interrupted; when ctx ends first ToHTML returns without waiting for it.
func (c *Converter) ToHTML(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		frag, err := c.Fragment(markdown)
		if err != nil {
			done <- result{err: err}

			return
		}

		done <- result{html: fmt.Sprintf(page, html.EscapeString(c.title), frag)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
