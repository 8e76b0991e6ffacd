package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/weft/weave"
)

// Weave writes the woven document and the tangled code of each source.
type Weave struct {
	Engine `embed:""`

	OutputDir string `help:"Directory for outputs (default: next to each source)." short:"b" type:"path"`
	Doc       string `help:"Woven document destination."                                    type:"path"`
	Code      string `help:"Tangled code destination."                                      type:"path"`
	HTML      bool   `help:"Weave Markdown and render it as an HTML page."          name:"html"`

	Source []string `arg:"" help:"Literate source documents, or '-' for stdin." name:"source"`
}

// Run executes the weave command.
func (w *Weave) Run(ctx context.Context) error {
	sources := uniqueSources(w.Source)
	if len(sources) == 0 {
		return ErrNoSource
	}

	if (w.Doc != "" || w.Code != "") && len(sources) > 1 {
		return ErrOutputConflict.With(slog.Int("sources", len(sources)))
	}

	engine := w.Engine
	naming := engine.format()

	if w.HTML {
		engine.Format = "md"
		naming = "html"
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		var opts []weave.Option
		if w.HTML {
			opts = append(opts, htmlFilter(src))
		}

		p := w.paths(src, naming)

		if _, err := engine.process(ctx, p, os.Stdin, stdout(ctx), nil, opts...); err != nil {
			return err
		}
	}

	return nil
}

func (w *Weave) paths(src, format string) pathsFunc {
	return func(wv *weave.Weaver) (weave.Paths, error) {
		p := weave.Paths{Source: src}

		if src != stdinSource {
			var err error
			if p, err = wv.DerivePaths(src, format, w.OutputDir); err != nil {
				return p, err
			}
		}

		if w.Doc != "" {
			p.Doc = w.Doc
		}

		if w.Code != "" {
			p.Code = w.Code
		}

		return p, nil
	}
}

// Tangle writes only the tangled code of each source. Blocks still run, as
// processors may derive the code they emit from execution.
type Tangle struct {
	Engine `embed:""`

	OutputDir string `help:"Directory for the code (default: next to each source)." short:"b" type:"path"`
	Code      string `help:"Tangled code destination."                                      type:"path"`

	Source []string `arg:"" help:"Literate source documents, or '-' for stdin." name:"source"`
}

// Run executes the tangle command.
func (t *Tangle) Run(ctx context.Context) error {
	sources := uniqueSources(t.Source)
	if len(sources) == 0 {
		return ErrNoSource
	}

	if t.Code != "" && len(sources) > 1 {
		return ErrOutputConflict.With(slog.Int("sources", len(sources)))
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Tangled code of stdin goes to stdout unless --code is given.
		if _, err := t.process(ctx, t.paths(src), os.Stdin, nil, stdout(ctx)); err != nil {
			return err
		}
	}

	return nil
}

func (t *Tangle) paths(src string) pathsFunc {
	return func(wv *weave.Weaver) (weave.Paths, error) {
		p := weave.Paths{Source: src}

		if src != stdinSource {
			derived, err := wv.DerivePaths(src, t.format(), t.OutputDir)
			if err != nil {
				return p, err
			}

			p.Code = derived.Code
		}

		if t.Code != "" {
			p.Code = t.Code
		}

		return p, nil
	}
}
