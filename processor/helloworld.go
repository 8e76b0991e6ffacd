package processor

import (
	"context"
	"strconv"

	"github.com/ardnew/weft/option"
)

// HelloWorld is the smallest useful processor and a template for new ones.
// It replaces the block with a line of hello_text and tangles a statement
// printing it.
//
//	<<p=helloworld, hello_text="Hi there">>=
//	anything at all
//	@
type HelloWorld struct {
	Base
}

// NewHelloWorld returns the "helloworld" processor.
func NewHelloWorld(b Base) Processor { return &HelloWorld{Base: b} }

func (h *HelloWorld) Name() string { return "helloworld" }

func (h *HelloWorld) Defaults() option.Set {
	return option.From(map[string]string{"hello_text": "Hello World!"})
}

func (h *HelloWorld) Process(_ context.Context, _ Block, opts option.Set) (Fragment, error) {
	text := opts.Get("hello_text")

	return Fragment{
		Doc:  text + "\n",
		Code: "println(" + strconv.Quote(text) + ")\n",
	}, nil
}
