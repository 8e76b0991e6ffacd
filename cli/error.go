package cli

import "github.com/ardnew/weft/fault"

// Error is the structured error type returned by this package.
type Error = fault.Error

var (
	ErrConfig = fault.New("parse configuration file")
	ErrMkdir  = fault.New("create runtime directory")
)
