package processor

import (
	"context"

	"github.com/ardnew/weft/option"
)

// Block is one code block of a document.
type Block struct {
	// Source is the code between the start marker and the terminator, with
	// its original line endings.
	Source string
	// Header is the text between "<<" and ">>=" on the start marker.
	Header string
	// Line is the 1-based line number of the start marker.
	Line int
}

// Fragment is what a processor contributes to the two output streams.
type Fragment struct {
	// Doc is appended to the woven document.
	Doc string
	// Code is appended to the tangled code.
	Code string
}

// Processor converts a block and its merged options into a [Fragment].
//
// Process must not modify the block, must give the same result for the same
// namespace state and options, and returns an error only for authoring
// mistakes that make the run meaningless.
type Processor interface {
	Name() string
	Defaults() option.Set
	Process(ctx context.Context, block Block, opts option.Set) (Fragment, error)
}

// Lookup finds registered processors by name. It is the only view of the
// registry a processor gets.
type Lookup interface {
	Lookup(name string) (Processor, bool)
	Names() []string
}

// Binder is implemented by processors that execute code against a
// namespace. Every processor embedding [Base] is a Binder.
type Binder interface {
	Use(name string)
	NamespaceName() string
}

// Tangler is implemented by processors whose tangled code is in a language
// of its own. CodeExtension returns the file extension of that language.
type Tangler interface {
	CodeExtension() string
}
