package weave

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/weft/log"
)

// DefaultTerminator ends a code block when a line begins with it.
const DefaultTerminator = "@"

// Unterminated selects what happens to a block still open at end of input.
type Unterminated int

const (
	// UnterminatedFlush processes the open block and warns.
	UnterminatedFlush Unterminated = iota
	// UnterminatedDrop discards the open block and warns.
	UnterminatedDrop
	// UnterminatedError fails the run with [ErrUnterminated].
	UnterminatedError
)

func (u Unterminated) String() string {
	switch u {
	case UnterminatedFlush:
		return "flush"
	case UnterminatedDrop:
		return "drop"
	case UnterminatedError:
		return "error"
	default:
		return "unknown"
	}
}

// UnmarshalText parses "flush", "drop" or "error".
func (u *Unterminated) UnmarshalText(text []byte) error {
	switch s := strings.ToLower(strings.TrimSpace(string(text))); s {
	case "", "flush":
		*u = UnterminatedFlush
	case "drop":
		*u = UnterminatedDrop
	case "error":
		*u = UnterminatedError
	default:
		return ErrPolicy.With(slog.String("unterminated", s))
	}

	return nil
}

// MarshalText returns the policy name.
func (u Unterminated) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// Nested selects what happens to a start marker found inside a code block.
type Nested int

const (
	// NestedLiteral keeps the marker line as code and warns.
	NestedLiteral Nested = iota
	// NestedError fails the run with [ErrNestedBlock].
	NestedError
)

func (n Nested) String() string {
	switch n {
	case NestedLiteral:
		return "literal"
	case NestedError:
		return "error"
	default:
		return "unknown"
	}
}

// UnmarshalText parses "literal" or "error".
func (n *Nested) UnmarshalText(text []byte) error {
	switch s := strings.ToLower(strings.TrimSpace(string(text))); s {
	case "", "literal":
		*n = NestedLiteral
	case "error":
		*n = NestedError
	default:
		return ErrPolicy.With(slog.String("nested", s))
	}

	return nil
}

// MarshalText returns the policy name.
func (n Nested) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// Options configures a [Weaver].
type Options struct {
	// Terminator ends a code block when a line begins with it.
	Terminator string
	// Unterminated is the policy for a block open at end of input.
	Unterminated Unterminated
	// Nested is the policy for a start marker inside a code block.
	Nested Nested
	// Warn receives every warning of a run. When nil, warnings are logged.
	Warn func(msg string, attrs ...slog.Attr)
	// Filter, when set, rewrites the finished woven document before it is
	// written.
	Filter func(ctx context.Context, doc string) (string, error)
}

// Option changes the [Options] of a [Weaver].
type Option func(*Options)

// WithOptions replaces all options.
func WithOptions(o Options) Option {
	return func(opts *Options) { *opts = o }
}

// WithTerminator sets the block terminator.
func WithTerminator(term string) Option {
	return func(opts *Options) { opts.Terminator = term }
}

// WithUnterminated sets the unterminated block policy.
func WithUnterminated(u Unterminated) Option {
	return func(opts *Options) { opts.Unterminated = u }
}

// WithNested sets the nested marker policy.
func WithNested(n Nested) Option {
	return func(opts *Options) { opts.Nested = n }
}

// WithWarn sets the warning channel.
func WithWarn(fn func(msg string, attrs ...slog.Attr)) Option {
	return func(opts *Options) { opts.Warn = fn }
}

// WithFilter sets the woven document filter.
func WithFilter(fn func(ctx context.Context, doc string) (string, error)) Option {
	return func(opts *Options) { opts.Filter = fn }
}

func (o Options) withDefaults() Options {
	if o.Terminator == "" {
		o.Terminator = DefaultTerminator
	}

	if o.Warn == nil {
		o.Warn = log.Warn
	}

	return o
}
