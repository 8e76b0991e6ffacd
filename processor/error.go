package processor

import "github.com/ardnew/weft/fault"

// Error is the structured error type returned by this package.
type Error = fault.Error

// Predefined errors (sentinel values).
var (
	ErrForeignProcessor   = fault.New("chained processor not registered")
	ErrDuplicateProcessor = fault.New("processor registered twice")
	ErrNoDefault          = fault.New("default processor not registered")
	ErrUnknownFormat      = fault.New("unknown output format")
	ErrTableData          = fault.New("invalid table data")
	ErrWrapTemplate       = fault.New("invalid autowrap options")
	ErrYAMLData           = fault.New("invalid YAML block")
	ErrHighlight          = fault.New("highlight block")
	ErrExecute            = fault.New("execute block")
)
