package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/weft/option"
)

// YAML loads data into the bound namespace. Each top-level key of the block
// becomes a binding, or the whole document is bound to the variable named by
// the into option.
//
//	<<yaml>>=
//	tablerows:
//	  - [1, 2]
//	  - [3, 4]
//	@
//
// Options echo=false includes the source in the document.
type YAML struct {
	Base
}

// NewYAML returns the "yaml" processor.
func NewYAML(b Base) Processor { return &YAML{Base: b} }

func (y *YAML) Name() string { return "yaml" }

func (y *YAML) Defaults() option.Set {
	return option.From(map[string]string{"echo": "false", "into": ""})
}

func (y *YAML) Process(_ context.Context, block Block, opts option.Set) (Fragment, error) {
	var data any
	if err := yaml.Unmarshal([]byte(block.Source), &data); err != nil {
		return Fragment{}, ErrYAMLData.Wrap(err).With(slog.Int("line", block.Line))
	}

	ns := y.Namespace()

	if into := opts.Get("into"); into != "" {
		ns.Set(into, data)
	} else {
		bindings, ok := stringKeys(data)
		if !ok {
			return Fragment{}, ErrYAMLData.With(
				slog.Int("line", block.Line),
				slog.String("reason", "top level is not a mapping; set into=<name>"),
			)
		}

		for k, v := range bindings {
			ns.Set(k, v)
		}
	}

	var frag Fragment

	if opts.Bool("echo") {
		mk, err := y.Markup()
		if err != nil {
			return Fragment{}, err
		}

		frag.Doc = fenced(mk.CodeStart, mk.CodeEnd, mk.CodeIndent, mk.Escape, block.Source)
	}

	return frag, nil
}

// stringKeys returns data as a map with string keys when it is a mapping.
// An empty document is an empty mapping.
func stringKeys(data any) (map[string]any, bool) {
	switch m := data.(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}

		return out, true
	default:
		return nil, false
	}
}
