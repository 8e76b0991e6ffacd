package cmd

import (
	"context"
	"io"
	"os"
	"syscall"

	"github.com/alecthomas/kong"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the standard output of the running kong application, or
// [os.Stdout] outside of one.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources drops repeated sources, keeping the first occurrence. Paths
// naming the same file through symlinks or different spellings collapse to
// one, and "-" appears at most once. Paths that cannot be resolved are kept
// so that opening them reports the error.
func uniqueSources(sources []string) []string {
	seen := make(map[fileKey]struct{}, len(sources))
	out := make([]string, 0, len(sources))
	stdin := false

	for _, src := range sources {
		if src == stdinSource {
			if !stdin {
				stdin = true

				out = append(out, src)
			}

			continue
		}

		if key, ok := keyOf(src); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, src)
	}

	return out
}

// keyOf follows symlinks at path and returns the key of the file reached.
func keyOf(path string) (fileKey, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}
