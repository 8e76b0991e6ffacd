package weave

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/weft/option"
	"github.com/ardnew/weft/processor"
)

// Weaver runs documents through a processor registry.
type Weaver struct {
	reg  *processor.Registry
	opts Options
}

// Stats summarizes one run.
type Stats struct {
	// Blocks is the number of blocks dispatched to a processor.
	Blocks int
	// Skipped is the number of blocks marked do-not-process.
	Skipped int
	// Fallbacks is the number of blocks whose processor was not registered.
	Fallbacks int
	// Warnings is the number of warnings raised while scanning and
	// dispatching.
	Warnings int
}

// LogValue implements [slog.LogValuer].
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("blocks", s.Blocks),
		slog.Int("skipped", s.Skipped),
		slog.Int("fallbacks", s.Fallbacks),
		slog.Int("warnings", s.Warnings),
	)
}

// New returns a Weaver dispatching blocks to reg.
func New(reg *processor.Registry, opts ...Option) *Weaver {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	return &Weaver{reg: reg, opts: o.withDefaults()}
}

// Options returns the effective options.
func (w *Weaver) Options() Options { return w.opts }

// Run weaves and tangles the document read from r. Text is copied to doc
// unchanged and each block contributes its fragments to doc and code in
// document order. Nothing is written unless the whole document succeeds.
//
// The context is checked before each block.
func (w *Weaver) Run(ctx context.Context, r io.Reader, doc, code io.Writer) (Stats, error) {
	var stats Stats

	warn := func(msg string, attrs ...slog.Attr) {
		stats.Warnings++
		w.opts.Warn(msg, attrs...)
	}

	segments, err := w.scan(r, warn)
	if err != nil {
		return stats, err
	}

	var docBuf, codeBuf bytes.Buffer

	for _, seg := range segments {
		if !seg.IsBlock() {
			docBuf.WriteString(seg.Text)

			continue
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		frag, err := w.dispatch(ctx, *seg.Block, &stats, warn)
		if err != nil {
			return stats, err
		}

		docBuf.WriteString(frag.Doc)
		codeBuf.WriteString(frag.Code)
	}

	if w.opts.Filter != nil {
		out, err := w.opts.Filter(ctx, docBuf.String())
		if err != nil {
			return stats, ErrFilter.Wrap(err)
		}

		docBuf.Reset()
		docBuf.WriteString(out)
	}

	if _, err := docBuf.WriteTo(doc); err != nil {
		return stats, ErrWrite.Wrap(err).With(slog.String("stream", "doc"))
	}

	if _, err := codeBuf.WriteTo(code); err != nil {
		return stats, ErrWrite.Wrap(err).With(slog.String("stream", "code"))
	}

	return stats, nil
}

func (w *Weaver) dispatch(
	ctx context.Context,
	block processor.Block,
	stats *Stats,
	warn func(string, ...slog.Attr),
) (processor.Fragment, error) {
	opts, warnings := option.Parse(block.Header)

	for _, pw := range warnings {
		warn("malformed block header",
			slog.Int("line", block.Line),
			slog.Any("header", pw),
		)
	}

	if opts.Skip() {
		stats.Skipped++

		return processor.Fragment{}, nil
	}

	// The registry reports the fallback itself.
	if !w.reg.Known(opts.Processor()) {
		stats.Fallbacks++
		stats.Warnings++
	}

	stats.Blocks++

	return w.reg.MergeAndProcess(ctx, block, opts)
}

// Preprocess runs input and returns the woven document and tangled code.
func (w *Weaver) Preprocess(ctx context.Context, input string) (doc, code string, err error) {
	var d, c strings.Builder

	if _, err := w.Run(ctx, strings.NewReader(input), &d, &c); err != nil {
		return "", "", err
	}

	return d.String(), c.String(), nil
}
