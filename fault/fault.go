// Package fault defines the structured error type shared by every weft
// package.
//
// Packages declare their own sentinels with [New] and decorate them at the
// failure site:
//
//	var ErrCompile = fault.New("compile")
//
//	return ErrCompile.Wrap(err).With(slog.String("namespace", ns))
//
// A decorated error still matches its sentinel with [errors.Is].
package fault

import (
	"errors"
	"log/slog"
	"strings"
)

// Error is an error message with an optional cause and structured logging
// attributes. It implements [slog.LogValuer].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
	root  *Error
}

// New returns a sentinel Error with message msg.
func New(msg string) *Error {
	return &Error{msg: msg}
}

// From converts err into an *Error. Errors that already contain an *Error
// are returned as that *Error, anything else becomes its cause.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error formats as "msg: cause", dropping whichever part is empty.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.root != nil && e.root == t.sentinel())
}

// Attrs returns a copy of the attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// LogValue renders e as a group of its message, cause and attributes.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], attrs...)

	return c
}

func (e *Error) derive() *Error {
	return &Error{msg: e.msg, err: e.err, attrs: e.attrs, root: e.sentinel()}
}

func (e *Error) sentinel() *Error {
	if e.root != nil {
		return e.root
	}

	return e
}
