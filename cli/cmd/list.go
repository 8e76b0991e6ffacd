package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ardnew/weft/processor"
)

// List prints the registered processors and their default options.
type List struct {
	Format string `default:"tex" enum:"tex,rst,sphinx,md,html" help:"Format the processors are configured for."`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) error {
	reg, err := processor.NewRegistry(processor.Config{
		Format: l.Format,
		Warn:   warnSink(ctx),
	}, processor.Builtin())
	if err != nil {
		return err
	}

	return writeList(stdout(ctx), reg)
}

func writeList(w io.Writer, reg *processor.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "PROCESSOR\tDEFAULTS")

	for _, name := range reg.Names() {
		p, ok := reg.Lookup(name)
		if !ok {
			continue
		}

		defaults := p.Defaults().String()
		if defaults == "" {
			defaults = "-"
		}

		fmt.Fprintf(tw, "%s\t%s\n", name, defaults)
	}

	return tw.Flush()
}
