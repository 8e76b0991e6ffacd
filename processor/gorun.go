package processor

import (
	"context"

	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
)

// Go renders blocks of Go source like [Default] renders expressions. Each
// namespace has its own interpreter, so declarations and imports carry over
// between the blocks bound to it.
//
//	<<go, term=true>>=
//	import "strings"
//	strings.ToUpper("loud")
//	@
type Go struct {
	Default
}

// NewGo returns the "go" processor.
func NewGo(b Base) Processor {
	return &Go{Default: Default{Base: b, name: "go"}}
}

// CodeExtension implements [Tangler].
func (g *Go) CodeExtension() string { return ".go" }

func (g *Go) Process(ctx context.Context, block Block, opts option.Set) (Fragment, error) {
	run := func(ctx context.Context, src string, mode namespace.Mode) (string, error) {
		return g.Namespace().ExecGo(ctx, src, mode)
	}

	doc, err := g.render(ctx, block, opts, run)
	if err != nil {
		return Fragment{}, err
	}

	return Fragment{Doc: doc, Code: block.Source}, nil
}
