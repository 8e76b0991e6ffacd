package namespace

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"
)

// Builtins returns a fresh copy of the identifiers visible to every
// namespace. The print family is bound per execution and is not included.
func Builtins() map[string]any {
	return map[string]any{
		"platform": map[string]any{
			"os":   runtime.GOOS,
			"arch": runtime.GOARCH,
		},

		"cwd": cwd,
		"env": os.Getenv,

		"file": map[string]any{
			"exists": fileExists,
			"isDir":  fileIsDir,
		},

		"path": map[string]any{
			"abs": pathAbs,
			"cat": filepath.Join,
			"rel": pathRel,
		},

		"mung": map[string]any{
			"prefix": mungPrefix,
		},
	}
}

// printers returns the print, println and printf builtins writing to w.
// Each returns nil so that a bare call in expression mode prints nothing
// beyond its own output.
func printers(w io.Writer) map[string]any {
	line := func(args ...any) any {
		fmt.Fprintln(w, joinArgs(args)...)

		return nil
	}

	return map[string]any{
		"print":   line,
		"println": line,
		"printf": func(format string, args ...any) any {
			fmt.Fprintf(w, format, args...)

			return nil
		},
	}
}

// joinArgs spaces every argument apart, strings included.
func joinArgs(args []any) []any {
	if len(args) < 2 {
		return args
	}

	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}

	return []any{strings.Join(parts, " ")}
}

// environment layers vars over base over the printers bound to w.
func environment(w io.Writer, base, vars map[string]any) map[string]any {
	env := printers(w)
	maps.Copy(env, base)
	maps.Copy(env, vars)

	return env
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func pathAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return abs
}

func pathRel(from, to string) string {
	rel, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return filepath.Join(from, to)
	}

	return rel
}

// mungPrefix prepends items to the PATH-like list subject, removing
// duplicates.
func mungPrefix(subject string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}
