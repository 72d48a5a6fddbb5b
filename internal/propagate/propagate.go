package propagate

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/pool"
)

// ErrCycle is returned when the graph, or the walk itself, runs into a layer
// that transitively depends on itself.
var ErrCycle = dag.ErrCycle

// frame is one entry of the explicit post-order stack.
type frame struct {
	id string
	// expanded is set once the layer's dependencies have been pushed.
	expanded bool
}

// propagator resolves pools over a working copy of a graph. Resolved pools
// are memoized per layer id for the whole pass, so a layer reachable through
// several paths is decided once.
type propagator struct {
	g        *dag.Graph
	resolved map[string]pool.Pool
	visiting map[string]bool
	logger   *slog.Logger
	stats    Stats
}

func newPropagator(working *dag.Graph, logger *slog.Logger) *propagator {
	return &propagator{
		g:        working,
		resolved: make(map[string]pool.Pool, working.Len()),
		visiting: make(map[string]bool),
		logger:   logger,
	}
}

// resolve returns the pool of root, tagging untagged layers below it in the
// working graph as their pools are decided.
func (p *propagator) resolve(root string) (pool.Pool, error) {
	if tag, ok := p.resolved[root]; ok {
		return tag, nil
	}

	stack := []frame{{id: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if _, done := p.resolved[top.id]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		id := top.id
		l, ok := p.g.Layer(id)
		if !ok {
			return pool.None, fmt.Errorf("%w: %s", dag.ErrUnknownLayer, id)
		}
		deps, err := p.g.Dependencies(id)
		if err != nil {
			return pool.None, err
		}

		if !top.expanded {
			p.stats.Visited++

			tag, err := l.Pool()
			if err != nil {
				return pool.None, fmt.Errorf("layer %q: %w", id, err)
			}
			if !tag.IsNone() {
				// An explicit tag wins; its inputs are not inspected.
				p.stats.Explicit++
				p.resolved[id] = tag
				stack = stack[:len(stack)-1]
				continue
			}
			if len(deps) == 0 {
				p.resolved[id] = pool.None
				stack = stack[:len(stack)-1]
				continue
			}

			top.expanded = true
			p.visiting[id] = true
			for i := len(deps) - 1; i >= 0; i-- {
				dep := deps[i]
				if _, done := p.resolved[dep]; done {
					continue
				}
				if p.visiting[dep] {
					return pool.None, fmt.Errorf("%w: %s -> %s", ErrCycle, id, dep)
				}
				stack = append(stack, frame{id: dep})
			}
			continue
		}

		pairs := make([]DepPool, len(deps))
		for i, dep := range deps {
			pairs[i] = DepPool{ID: dep, Pool: p.resolved[dep]}
		}
		chosen, info, err := pick(pairs, p.g)
		if err != nil {
			return pool.None, fmt.Errorf("layer %q: %w", id, err)
		}
		p.stats.record(info)

		if !chosen.IsNone() {
			if err := p.g.Replace(l.WithPool(chosen)); err != nil {
				return pool.None, err
			}
			p.stats.Tagged++
			p.logger.Debug("Layer assigned to pool.",
				"layer", id,
				"pool", chosen.String(),
				"candidates", info.candidates,
				"by_key_count", info.unknownSizes,
			)
		}

		p.resolved[id] = chosen
		delete(p.visiting, id)
		stack = stack[:len(stack)-1]
	}

	return p.resolved[root], nil
}
