package cmd

import "github.com/ardnew/weft/fault"

// Error is the structured error type returned by commands.
type Error = fault.Error

var (
	ErrYAMLMarshal     = fault.New("marshal YAML")
	ErrWriteConfig     = fault.New("write configuration file")
	ErrFileExists      = fault.New("file exists (use --force to overwrite)")
	ErrOutputConflict  = fault.New("explicit output requires a single source")
	ErrNoSource        = fault.New("no source document")
	ErrReadScript      = fault.New("read script")
	ErrUnknownLanguage = fault.New("unknown script language")
)
