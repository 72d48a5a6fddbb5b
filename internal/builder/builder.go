package builder

import (
	"context"
	"fmt"

	"github.com/specialistvlad/poolprop/internal/ctxlog"
	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/specialistvlad/poolprop/internal/pool"
)

// Builder collects layers and their dependencies and turns them into a graph.
// It is not safe for concurrent use.
type Builder struct {
	layers []*layer.Layer
	deps   map[string][]string
	scopes []pool.Pool
}

// New creates an empty builder with no active pool scope.
func New() *Builder {
	return &Builder{deps: make(map[string][]string)}
}

// Pool returns the pool of the innermost active scope, or pool.None.
func (b *Builder) Pool() pool.Pool {
	if len(b.scopes) == 0 {
		return pool.None
	}
	return b.scopes[len(b.scopes)-1]
}

// Add registers l as reading from deps. Inside a pool scope, an untagged l is
// replaced by a tagged copy; a layer with its own tag keeps it.
func (b *Builder) Add(l *layer.Layer, deps ...string) error {
	if l == nil || l.ID == "" {
		return fmt.Errorf("layer id is required")
	}
	if _, exists := b.deps[l.ID]; exists {
		return fmt.Errorf("%w: %s", dag.ErrDuplicateLayer, l.ID)
	}

	own, err := l.Pool()
	if err != nil {
		return fmt.Errorf("layer %q: %w", l.ID, err)
	}
	if scope := b.Pool(); !scope.IsNone() && own.IsNone() {
		l = l.WithPool(scope)
	}

	b.layers = append(b.layers, l)
	b.deps[l.ID] = append([]string(nil), deps...)
	return nil
}

// WithPool runs fn with name as the active pool. The previous scope is
// restored when fn returns, fails or panics.
func (b *Builder) WithPool(name string, fn func(*Builder) error) error {
	p, err := pool.New(name)
	if err != nil {
		return err
	}

	b.scopes = append(b.scopes, p)
	defer func() { b.scopes = b.scopes[:len(b.scopes)-1] }()

	return fn(b)
}

// Build constructs and validates the graph from everything added so far.
// The builder can keep being used afterwards.
func (b *Builder) Build(ctx context.Context) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "layer_count", len(b.layers))

	g := dag.New()
	for _, l := range b.layers {
		if err := g.AddLayer(l); err != nil {
			return nil, err
		}
	}

	for _, l := range b.layers {
		for _, dep := range b.deps[l.ID] {
			if err := g.AddEdge(dep, l.ID); err != nil {
				return nil, fmt.Errorf("layer %q depends on %q: %w", l.ID, dep, err)
			}
		}
	}
	logger.Debug("Build: Dependency linking complete.")

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}

	logger.Debug("Build: Graph construction successful.")
	return g, nil
}
