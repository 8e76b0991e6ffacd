package processor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/weft/option"
)

// Chain runs the block through each processor named by via, in order, and
// concatenates what they contribute. Every step sees the block's own
// options layered over that step's defaults.
//
//	<<chain, via="highlight;default", lang=go>>=
//	1 + 2
//	@
type Chain struct {
	Base
}

// NewChain returns the "chain" processor.
func NewChain(b Base) Processor { return &Chain{Base: b} }

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Defaults() option.Set {
	return option.From(map[string]string{"via": ""})
}

func (c *Chain) Process(ctx context.Context, block Block, opts option.Set) (Fragment, error) {
	steps := chainSteps(opts.Get("via"))
	if len(steps) == 0 {
		c.Warn("chain has no steps", slog.Int("line", block.Line))

		return Fragment{}, nil
	}

	var doc, code strings.Builder

	for _, name := range steps {
		if name == c.Name() {
			return Fragment{}, ErrForeignProcessor.With(
				slog.String("processor", name),
				slog.Int("line", block.Line),
				slog.String("reason", "chain cannot run itself"),
			)
		}

		frag, err := c.ProcessForeign(ctx, name, block, opts)
		if err != nil {
			return Fragment{}, err
		}

		doc.WriteString(frag.Doc)
		code.WriteString(frag.Code)
	}

	return Fragment{Doc: doc.String(), Code: code.String()}, nil
}

func chainSteps(via string) []string {
	var steps []string

	for name := range strings.SplitSeq(via, ";") {
		if name = strings.TrimSpace(name); name != "" {
			steps = append(steps, name)
		}
	}

	return steps
}
