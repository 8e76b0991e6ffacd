package processor

import (
	"context"
	"log/slog"
	"slices"

	"github.com/ardnew/weft/option"
)

// Factory constructs a processor from its [Base].
type Factory func(Base) Processor

type entry struct {
	name    string
	factory Factory
}

// Catalog is an ordered list of processor factories.
type Catalog struct {
	entries []entry
}

// Register appends a factory under name.
func (c *Catalog) Register(name string, factory Factory) {
	c.entries = append(c.entries, entry{name: name, factory: factory})
}

// Names returns the registered names in registration order.
func (c Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name
	}

	return names
}

// Registry maps names to constructed processors.
type Registry struct {
	cfg   Config
	procs map[string]Processor
	order []string
}

// NewRegistry constructs every processor of catalog once. Each receives the
// same registry as its [Lookup], so siblings can find each other regardless
// of registration order.
func NewRegistry(cfg Config, catalog Catalog) (*Registry, error) {
	cfg = cfg.withDefaults()

	r := &Registry{cfg: cfg, procs: make(map[string]Processor, len(catalog.entries))}

	for _, e := range catalog.entries {
		if _, dup := r.procs[e.name]; dup {
			return nil, ErrDuplicateProcessor.With(slog.String("processor", e.name))
		}

		r.procs[e.name] = e.factory(NewBase(cfg, r))
		r.order = append(r.order, e.name)
	}

	if _, ok := r.procs[cfg.DefaultProcessor]; !ok {
		return nil, ErrNoDefault.With(slog.String("processor", cfg.DefaultProcessor))
	}

	return r, nil
}

// Config returns the configuration shared by the registry's processors.
func (r *Registry) Config() Config { return r.cfg }

// Lookup returns the processor registered as name.
func (r *Registry) Lookup(name string) (Processor, bool) {
	p, ok := r.procs[name]

	return p, ok
}

// Names returns the sorted names of all processors.
func (r *Registry) Names() []string {
	names := slices.Clone(r.order)
	slices.Sort(names)

	return names
}

// Known reports whether a block requesting name is handled by that
// processor rather than by the fallback.
func (r *Registry) Known(name string) bool {
	_, ok := r.procs[r.canonical(name)]

	return ok
}

// canonical maps the seeded processor name to the configured default, so
// that a registry whose default is not called "default" still handles
// headers that name no processor.
func (r *Registry) canonical(name string) string {
	if name == option.DefaultProcessor {
		return r.cfg.DefaultProcessor
	}

	return name
}

// Resolve returns the processor that handles blocks requesting name. An
// unregistered name resolves to the default processor without a warning.
func (r *Registry) Resolve(name string) Processor {
	if p, ok := r.procs[r.canonical(name)]; ok {
		return p
	}

	return r.procs[r.cfg.DefaultProcessor]
}

// MergeAndProcess processes block with the processor raw requests, layering
// raw over that processor's defaults. An unregistered processor is reported
// as a warning and the default processor is used instead.
func (r *Registry) MergeAndProcess(
	ctx context.Context,
	block Block,
	raw option.Set,
) (Fragment, error) {
	name := r.canonical(raw.Processor())

	p, ok := r.procs[name]
	if !ok {
		r.cfg.warn("processor not found; using default",
			slog.String("processor", name),
			slog.String("default", r.cfg.DefaultProcessor),
			slog.Int("line", block.Line),
		)

		p = r.procs[r.cfg.DefaultProcessor]
	}

	return mergeAndProcess(ctx, p, block, raw)
}

// ProcessForeign processes block with the processor called name. Unlike
// [Registry.MergeAndProcess], an unregistered name is an error.
func (r *Registry) ProcessForeign(
	ctx context.Context,
	name string,
	block Block,
	opts option.Set,
) (Fragment, error) {
	p, ok := r.procs[name]
	if !ok {
		return Fragment{}, ErrForeignProcessor.With(
			slog.String("processor", name),
			slog.Int("line", block.Line),
		)
	}

	return mergeAndProcess(ctx, p, block, opts)
}
