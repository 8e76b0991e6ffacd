package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/weft/cli/cmd/repl"
	"github.com/ardnew/weft/log"
	"github.com/ardnew/weft/namespace"
	"github.com/ardnew/weft/weave"
)

// Repl starts an interactive session, optionally over the namespaces left
// behind by running a source document.
type Repl struct {
	Engine `embed:""`

	Use string `default:"default" help:"Namespace the session starts in."`

	Source string `arg:"" help:"Literate source to run first." optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	store, err := r.store(ctx)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	log.DebugContext(ctx, "repl",
		slog.String("source", r.Source),
		slog.String("namespace", r.Use),
		slog.Any("namespaces", store.Names()),
	)

	return repl.Run(ctx, repl.Config{
		Store:     store,
		Namespace: r.Use,
		CacheDir:  cacheDir,
		Logger:    log.Default(),
	})
}

// store returns the namespaces the session opens with. Outputs of a source
// document are discarded.
func (r *Repl) store(ctx context.Context) (*namespace.Store, error) {
	if r.Source == "" {
		_, store, err := r.build(ctx)

		return store, err
	}

	return r.process(ctx, fixedPaths(weave.Paths{Source: r.Source}), nil, nil, nil)
}
