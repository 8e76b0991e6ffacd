package processor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
)

// runner executes source for a rendering policy.
type runner func(ctx context.Context, src string, mode namespace.Mode) (string, error)

// Default echoes, evaluates and renders blocks of expressions and
// statements.
//
// Options:
//
//	echo=true        include the source in the document
//	evaluate=true    execute the block
//	results=verbatim verbatim, hide, or a raw markup name (tex, rst, md,
//	                 html, raw) to insert output unwrapped
//	term=false       transcript mode: execute line by line, each source
//	                 line followed by its output
//	mode=auto        auto, expression or block
//	fig=false        accepted; figures are not rendered
//	caption, width   accepted for compatibility with figure headers
type Default struct {
	Base

	name   string
	legacy bool
}

// NewDefault returns the "default" processor.
func NewDefault(b Base) Processor { return &Default{Base: b, name: "default"} }

// NewLegacyDefault returns the "legacydefault" processor, which renders the
// way the first releases of the tool did: transcript mode only opens a code
// environment for tex, output is never hidden and only tex and rst results
// are inserted unwrapped.
func NewLegacyDefault(b Base) Processor {
	return &Default{Base: b, name: LegacyDefault, legacy: true}
}

func (d *Default) Name() string { return d.name }

// CodeExtension implements [Tangler]. Tangled blocks are expr source.
func (d *Default) CodeExtension() string { return ".expr" }

func (d *Default) Defaults() option.Set {
	m := map[string]string{
		"echo":     "true",
		"evaluate": "true",
		"results":  "verbatim",
		"term":     "false",
		"fig":      "false",
		"caption":  "",
		"width":    "15 cm",
	}

	if !d.legacy {
		m["mode"] = namespace.ModeAuto.String()
	}

	return option.From(m)
}

func (d *Default) Process(ctx context.Context, block Block, opts option.Set) (Fragment, error) {
	doc, err := d.render(ctx, block, opts, d.Exec)
	if err != nil {
		return Fragment{}, err
	}

	return Fragment{Doc: doc, Code: block.Source}, nil
}

// render applies the echo/evaluate/results/term policy, executing code with
// run.
func (d *Default) render(ctx context.Context, block Block, opts option.Set, run runner) (string, error) {
	mk, err := d.Markup()
	if err != nil {
		return "", err
	}

	mode := namespace.ModeAuto
	if !d.legacy {
		if mode, err = namespace.ParseMode(opts.Get("mode")); err != nil {
			return "", err
		}
	}

	if opts.Bool("fig") {
		d.Warn("figure output is not supported", slog.Int("line", block.Line))
	}

	exec := func(src string) (string, error) {
		out, err := run(ctx, src, mode)
		if err != nil {
			return "", ErrExecute.Wrap(err).With(
				slog.String("processor", d.name),
				slog.String("namespace", d.NamespaceName()),
				slog.Int("line", block.Line),
			)
		}

		return out, nil
	}

	var sb strings.Builder

	if opts.Bool("term") {
		sb.WriteString("\n")

		if !d.legacy || mk.Format == "tex" {
			sb.WriteString(mk.CodeStart)
		}

		for _, line := range lines(block.Source) {
			sb.WriteString(">>> " + mk.Escape(line) + "\n")

			if !d.legacy && !opts.Bool("evaluate") {
				continue
			}

			out, err := exec(line)
			if err != nil {
				return "", err
			}

			sb.WriteString(mk.Escape(out))
		}

		sb.WriteString(mk.CodeEnd)

		return sb.String(), nil
	}

	if opts.Bool("echo") {
		sb.WriteString(fenced(mk.CodeStart, mk.CodeEnd, mk.CodeIndent, mk.Escape, block.Source))
	}

	var result []string

	if opts.Bool("evaluate") {
		out, err := exec(block.Source)
		if err != nil {
			return "", err
		}

		result = lines(out)
	}

	results := opts.Get("results")

	if len(result) == 0 || (!d.legacy && results == "hide") {
		return sb.String(), nil
	}

	indent, escape := mk.CodeIndent, mk.Escape

	switch {
	case results == "verbatim":
		sb.WriteString(mk.OutputStart)
	case d.rawResults(results):
		indent, escape = "", identity
	}

	for _, line := range result {
		sb.WriteString(indent + escape(line) + "\n")
	}

	sb.WriteString("\n")

	if results == "verbatim" {
		sb.WriteString(mk.OutputEnd)
	}

	return sb.String(), nil
}

func (d *Default) rawResults(results string) bool {
	switch results {
	case "tex", "rst":
		return true
	case "md", "html", "raw", "sphinx":
		return !d.legacy
	default:
		return false
	}
}

// lines splits s into lines without their terminators. A final terminator
// does not start another line.
func lines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")

	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}
