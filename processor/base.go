package processor

import (
	"context"
	"log/slog"

	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/option"
)

// Base carries what every processor needs: the run configuration, a lookup
// of its siblings and the namespace it is bound to. Processors embed it.
type Base struct {
	cfg    Config
	lookup Lookup
	ns     *namespace.Namespace
}

// NewBase returns a Base bound to the default namespace of cfg.Store.
func NewBase(cfg Config, lookup Lookup) Base {
	cfg = cfg.withDefaults()

	return Base{cfg: cfg, lookup: lookup, ns: cfg.Store.Namespace(namespace.Default)}
}

// Config returns the run configuration.
func (b *Base) Config() Config { return b.cfg }

// Defaults returns an empty set.
func (b *Base) Defaults() option.Set { return option.Set{} }

// Use binds the processor to the namespace called name. The binding lasts
// until the next call.
func (b *Base) Use(name string) { b.ns = b.cfg.Store.Namespace(name) }

// Namespace returns the bound namespace.
func (b *Base) Namespace() *namespace.Namespace { return b.ns }

// NamespaceName returns the name of the bound namespace.
func (b *Base) NamespaceName() string { return b.ns.Name() }

// Markup returns the markup of the configured format.
func (b *Base) Markup() (Markup, error) { return MarkupFor(b.cfg.Format) }

// Warn reports a non-fatal problem.
func (b *Base) Warn(msg string, attrs ...slog.Attr) { b.cfg.warn(msg, attrs...) }

// Exec runs src in the bound namespace.
func (b *Base) Exec(ctx context.Context, src string, mode namespace.Mode) (string, error) {
	return b.ns.Exec(ctx, src, mode)
}

// ProcessForeign hands block to the sibling called name, merging that
// sibling's defaults under opts. The sibling is looked up when called. An
// unregistered name is an error; it is never replaced by another processor.
func (b *Base) ProcessForeign(
	ctx context.Context,
	name string,
	block Block,
	opts option.Set,
) (Fragment, error) {
	p, ok := b.lookup.Lookup(name)
	if !ok {
		return Fragment{}, ErrForeignProcessor.With(
			slog.String("processor", name),
			slog.Int("line", block.Line),
		)
	}

	return mergeAndProcess(ctx, p, block, opts)
}

// mergeAndProcess binds p to the namespace requested by raw, layers raw over
// p's defaults and processes block.
func mergeAndProcess(
	ctx context.Context,
	p Processor,
	block Block,
	raw option.Set,
) (Fragment, error) {
	if name, ok := raw.Lookup(KeyNamespace); ok {
		if binder, ok := p.(Binder); ok {
			binder.Use(name)
		}
	}

	return p.Process(ctx, block, raw.Merge(p.Defaults()))
}

// KeyNamespace is the block option that rebinds a processor's namespace.
const KeyNamespace = "namespace"
