package scheduler

import (
	"context"
	"errors"

	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/propagate"
)

// ErrFusionWithPools is returned by Config.Validate when fusion and pool
// propagation are both enabled.
var ErrFusionWithPools = errors.New("layer fusion cannot be combined with pool propagation")

// Optimization rewrites a graph before execution. It must not modify its
// input and returns the graph to use instead.
type Optimization func(ctx context.Context, g *dag.Graph) (*dag.Graph, error)

// Config controls what Submit does to a graph.
//
// The zero value runs no optimizations and does not fuse.
type Config struct {
	// Optimizations run in order after fusion.
	Optimizations []Optimization

	// Fuse merges linear chains of layers into single layers. It must be
	// off whenever PoolPropagation is on.
	Fuse bool

	// PoolPropagation runs pool propagation before Optimizations.
	PoolPropagation bool
}

// WithPoolPropagation returns a copy of c with pool propagation enabled and
// fusion disabled.
func (c Config) WithPoolPropagation() Config {
	c.PoolPropagation = true
	c.Fuse = false
	return c
}

// Validate reports configuration combinations Submit cannot honor.
func (c Config) Validate() error {
	if c.Fuse && c.PoolPropagation {
		return ErrFusionWithPools
	}
	for _, opt := range c.Optimizations {
		if opt == nil {
			return errors.New("optimization cannot be nil")
		}
	}
	return nil
}

// pipeline returns every optimization Submit applies, in order.
func (c Config) pipeline() []Optimization {
	var out []Optimization
	if c.PoolPropagation {
		out = append(out, propagate.Propagate)
	}
	return append(out, c.Optimizations...)
}
