package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/weft/log"
	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
	"github.com/ardnew/weft/processor"
	"github.com/ardnew/weft/render"
	"github.com/ardnew/weft/weave"
)

// Engine holds the flags shared by every command that runs documents.
type Engine struct {
	Format       string             `default:""            enum:",tex,rst,sphinx,md,html" help:"Output format: tex, rst, sphinx, md or html (default tex, or rst with --legacy)." placeholder:"FORMAT"`
	Legacy       bool               `default:"false"                                      help:"Use the legacy default processor and rst output."                                  short:"L"`
	ImageDir     string             `default:"weft_images"                                help:"Directory for generated images, relative to the woven document unless absolute."   short:"d"`
	Terminator   string             `default:"@"                                          help:"Line prefix closing a code block."`
	Unterminated weave.Unterminated `default:"flush"                                      help:"Block open at end of input: flush, drop or error."`
	Nested       weave.Nested       `default:"literal"                                    help:"Start marker inside a block: literal or error."`
	Namespace    []string           `                                                     help:"Namespaces to create before the first block."                                      sep:","`
}

// format returns the effective output format.
func (e Engine) format() string {
	switch {
	case e.Format != "":
		return e.Format
	case e.Legacy:
		return "rst"
	default:
		return processor.DefaultFormat
	}
}

func (e Engine) defaultProcessor() string {
	if e.Legacy {
		return processor.LegacyDefault
	}

	return option.DefaultProcessor
}

// build assembles a weaver over a fresh namespace store. Processor and
// scanner warnings share one sink.
func (e Engine) build(ctx context.Context, opts ...weave.Option) (*weave.Weaver, *namespace.Store, error) {
	store := namespace.NewStore()
	for _, name := range e.Namespace {
		store.Namespace(name)
	}

	warn := warnSink(ctx)

	reg, err := processor.NewRegistry(processor.Config{
		Format:           e.format(),
		Store:            store,
		DefaultProcessor: e.defaultProcessor(),
		ImageDir:         e.ImageDir,
		Logger:           log.Default(),
		Warn:             warn,
	}, processor.Builtin())
	if err != nil {
		return nil, nil, err
	}

	w := weave.New(reg, append([]weave.Option{
		weave.WithTerminator(e.Terminator),
		weave.WithUnterminated(e.Unterminated),
		weave.WithNested(e.Nested),
		weave.WithWarn(warn),
	}, opts...)...)

	log.DebugContext(ctx, "engine ready",
		slog.String("format", e.format()),
		slog.String("processor", e.defaultProcessor()),
		slog.Any("namespaces", store.Names()),
	)

	return w, store, nil
}

// pathsFunc names the files of a run once its weaver exists.
type pathsFunc func(*weave.Weaver) (weave.Paths, error)

func fixedPaths(p weave.Paths) pathsFunc {
	return func(*weave.Weaver) (weave.Paths, error) { return p, nil }
}

// process runs the document named by paths. A source of "-" reads in; each
// of its outputs goes to the file named in the paths, or else to docOut and
// codeOut, where a nil writer discards the stream.
func (e Engine) process(
	ctx context.Context,
	paths pathsFunc,
	in io.Reader,
	docOut, codeOut io.Writer,
	opts ...weave.Option,
) (*namespace.Store, error) {
	w, store, err := e.build(ctx, opts...)
	if err != nil {
		return nil, err
	}

	p, err := paths(w)
	if err != nil {
		return nil, err
	}

	if p.Source != stdinSource {
		stats, err := w.WeaveFile(ctx, p)
		if err != nil {
			return nil, err
		}

		log.InfoContext(ctx, "processed", slog.Any("paths", p), slog.Any("stats", stats))

		return store, nil
	}

	var doc, code strings.Builder

	stats, err := w.Run(ctx, in, &doc, &code)
	if err != nil {
		return nil, err
	}

	if err := emit(p.Doc, docOut, doc.String()); err != nil {
		return nil, err
	}

	if err := emit(p.Code, codeOut, code.String()); err != nil {
		return nil, err
	}

	log.InfoContext(ctx, "processed", slog.Any("paths", p), slog.Any("stats", stats))

	return store, nil
}

// emit writes s to the file at path, or to fallback when path is empty.
// A nil fallback discards s.
func emit(path string, fallback io.Writer, s string) error {
	if path == "" {
		if fallback == nil {
			return nil
		}

		if _, err := io.WriteString(fallback, s); err != nil {
			return weave.ErrWrite.Wrap(err).With(slog.String("stream", "stdout"))
		}

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return weave.ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
		return weave.ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// htmlFilter renders a woven Markdown document as a standalone page titled
// after source.
func htmlFilter(source string) weave.Option {
	title := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if source == stdinSource {
		title = "stdin"
	}

	conv := render.NewConverter(render.WithTitle(title))

	return weave.WithFilter(conv.ToHTML)
}

func warnSink(ctx context.Context) func(string, ...slog.Attr) {
	return func(msg string, attrs ...slog.Attr) {
		log.WarnContext(ctx, msg, attrs...)
	}
}
