package namespace

import (
	"log/slog"

	"github.com/ardnew/weft/fault"
)

// Error is the structured error type returned by this package.
type Error = fault.Error

// Predefined errors (sentinel values).
var (
	ErrCompile     = fault.New("compile expression")
	ErrEvaluate    = fault.New("evaluate expression")
	ErrStatement   = fault.New("malformed statement")
	ErrUnknownMode = fault.New("unknown execution mode")
	ErrUndefined   = fault.New("undefined identifier")
	ErrInterpreter = fault.New("go interpreter")
)

// annotate attaches the namespace name to err.
func annotate(err error, namespace string) *Error {
	return fault.From(err).With(slog.String("namespace", namespace))
}
