package weave

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/weft/option"
	"github.com/ardnew/weft/processor"
)

// CodeExtension is the file extension of tangled code when the processors of
// a document declare none, or disagree.
const CodeExtension = ".expr"

// Paths names the files of one run. An empty Doc or Code discards that
// stream.
type Paths struct {
	Source string
	Doc    string
	Code   string
}

// LogValue implements [slog.LogValuer].
func (p Paths) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", p.Source),
		slog.String("doc", p.Doc),
		slog.String("code", p.Code),
	)
}

// DerivePaths returns the default outputs of source: the woven document
// named after format and the tangled code, both placed in dir, or next to
// source when dir is empty.
func DerivePaths(source, format, dir string) Paths {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	if dir == "" {
		dir = filepath.Dir(source)
	}

	return Paths{
		Source: source,
		Doc:    filepath.Join(dir, base+processor.Extension(format)),
		Code:   filepath.Join(dir, base+CodeExtension),
	}
}

// DerivePaths is like the package-level [DerivePaths], but the tangled code
// takes the extension reported by [Weaver.TangleExtension] for source.
func (w *Weaver) DerivePaths(source, format, dir string) (Paths, error) {
	p := DerivePaths(source, format, dir)

	src, err := os.Open(source)
	if err != nil {
		return p, ErrRead.Wrap(err).With(slog.String("path", source))
	}
	defer src.Close()

	ext, err := w.TangleExtension(src)
	if err != nil {
		return p, err
	}

	p.Code = strings.TrimSuffix(p.Code, CodeExtension) + ext

	return p, nil
}

// TangleExtension returns the file extension of the code tangled from the
// document read from r. It is the extension every processing block's
// processor declares as a [processor.Tangler], or [CodeExtension] when they
// disagree or none declares one. Blocks are scanned, not run.
func (w *Weaver) TangleExtension(r io.Reader) (string, error) {
	segments, err := w.scan(r, func(string, ...slog.Attr) {})
	if err != nil {
		return "", err
	}

	ext := ""

	for _, seg := range segments {
		if !seg.IsBlock() {
			continue
		}

		opts, _ := option.Parse(seg.Block.Header)
		if opts.Skip() {
			continue
		}

		t, ok := w.reg.Resolve(opts.Processor()).(processor.Tangler)
		if !ok {
			continue
		}

		switch e := t.CodeExtension(); {
		case ext == "":
			ext = e
		case e != ext:
			return CodeExtension, nil
		}
	}

	if ext == "" {
		return CodeExtension, nil
	}

	return ext, nil
}

// ImageDir returns the directory for images generated while weaving p: dir
// itself when absolute, otherwise dir under the directory of p.Doc. It is
// empty when dir is empty or p writes no document.
func ImageDir(p Paths, dir string) string {
	switch {
	case dir == "" || p.Doc == "":
		return ""
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(filepath.Dir(p.Doc), dir)
	}
}

// WeaveFile runs the document at p.Source and writes the results to p.Doc
// and p.Code, creating their directories as needed, along with the
// registry's image directory as placed by [ImageDir]. The outputs are only
// created once the whole document has been processed. Directories created
// are left in place when a later step fails.
func (w *Weaver) WeaveFile(ctx context.Context, p Paths) (Stats, error) {
	if same(p.Source, p.Doc) || same(p.Source, p.Code) {
		return Stats{}, ErrSamePath.With(slog.Any("paths", p))
	}

	src, err := os.Open(p.Source)
	if err != nil {
		return Stats{}, ErrRead.Wrap(err).With(slog.String("path", p.Source))
	}
	defer src.Close()

	var dirs []string

	for _, out := range []string{p.Doc, p.Code} {
		if out != "" {
			dirs = append(dirs, filepath.Dir(out))
		}
	}

	if img := ImageDir(p, w.reg.Config().ImageDir); img != "" {
		dirs = append(dirs, img)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, ErrWrite.Wrap(err).With(slog.String("path", dir))
		}
	}

	var doc, code bytes.Buffer

	stats, err := w.Run(ctx, src, &doc, &code)
	if err != nil {
		return stats, err
	}

	if err := writeFile(p.Doc, &doc); err != nil {
		return stats, err
	}

	if err := writeFile(p.Code, &code); err != nil {
		return stats, err
	}

	return stats, nil
}

func writeFile(path string, r io.Reader) (err error) {
	if path == "" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ErrWrite.Wrap(cerr).With(slog.String("path", path))
		}
	}()

	if _, err := io.Copy(f, r); err != nil {
		return ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

func same(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return absA == absB
}
