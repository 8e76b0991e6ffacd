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
)

// Script executes tangled code in a fresh namespace store and prints what
// it writes.
type Script struct {
	Lang      string `default:"auto"    enum:"auto,expr,go" help:"Script language; auto selects go for .go files."`
	Namespace string `default:"default"                     help:"Namespace the script runs in."`

	Path string `arg:"" help:"Script to run, or '-' for stdin." name:"script"`
}

// Run executes the run command.
func (s *Script) Run(ctx context.Context) error {
	out, err := s.execute(ctx, os.Stdin)
	if _, werr := io.WriteString(stdout(ctx), out); werr != nil && err == nil {
		err = werr
	}

	return err
}

// execute runs the script and returns its output, which is complete up to
// the failing statement when err is non-nil.
func (s *Script) execute(ctx context.Context, stdin io.Reader) (string, error) {
	src, err := s.read(stdin)
	if err != nil {
		return "", err
	}

	lang, err := s.language()
	if err != nil {
		return "", err
	}

	ns := namespace.NewStore().Namespace(s.Namespace)

	log.DebugContext(ctx, "run script",
		slog.String("path", s.Path),
		slog.String("lang", lang),
		slog.String("namespace", ns.Name()),
	)

	if lang == "go" {
		return ns.ExecGo(ctx, src, namespace.ModeBlock)
	}

	return ns.Exec(ctx, src, namespace.ModeBlock)
}

func (s *Script) read(stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)

	if s.Path == stdinSource {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(s.Path)
	}

	if err != nil {
		return "", ErrReadScript.Wrap(err).With(slog.String("path", s.Path))
	}

	return string(data), nil
}

func (s *Script) language() (string, error) {
	switch lang := strings.ToLower(s.Lang); lang {
	case "", "auto":
		if filepath.Ext(s.Path) == ".go" {
			return "go", nil
		}

		return "expr", nil
	case "expr", "go":
		return lang, nil
	default:
		return "", ErrUnknownLanguage.With(slog.String("lang", s.Lang))
	}
}
