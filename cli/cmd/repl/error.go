package repl

import "github.com/ardnew/weft/fault"

// Error is the structured error type returned by this package.
type Error = fault.Error

var (
	ErrOutOfBounds = fault.New("index out of range")
	ErrHistory     = fault.New("history file")
	ErrSave        = fault.New("save session")
)
