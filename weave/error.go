package weave

import "github.com/ardnew/weft/fault"

// Error is the structured error type returned by this package.
type Error = fault.Error

// Predefined errors (sentinel values).
var (
	ErrUnterminated = fault.New("unterminated code block")
	ErrNestedBlock  = fault.New("start marker inside code block")
	ErrPolicy       = fault.New("unknown policy")
	ErrSamePath     = fault.New("woven output would overwrite source")
	ErrRead         = fault.New("read source")
	ErrWrite        = fault.New("write output")
	ErrFilter       = fault.New("filter woven document")
)
