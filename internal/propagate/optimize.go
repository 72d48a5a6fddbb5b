package propagate

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/poolprop/internal/ctxlog"
	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/pool"
)

// Stats summarizes one propagation pass.
type Stats struct {
	// Visited counts layers whose tag was inspected.
	Visited int
	// Explicit counts visited layers that already carried a pool.
	Explicit int
	// Tagged counts layers that received a pool during the pass.
	Tagged int
	// Unconstrained counts picker calls that declined to choose a pool.
	Unconstrained int
	// KeyCountFallbacks counts picker calls that fell back to key counts.
	KeyCountFallbacks int
}

func (s *Stats) record(info pickInfo) {
	pickOutcomes.WithLabelValues(string(info.outcome)).Inc()
	if info.outcome == outcomeUnconstrained {
		s.Unconstrained++
	}
	if info.unknownSizes {
		s.KeyCountFallbacks++
		unknownSizeFallbacks.Inc()
	}
}

// Propagate infers pools for untagged layers of g from their dependencies and
// returns the result as a new graph. g is not modified; layers that gain a
// pool are replaced by tagged copies, all other layers are shared.
//
// The walk starts from every sink (layer with no dependents) and resolves
// dependencies first. Its signature matches scheduler.Optimization.
func Propagate(ctx context.Context, g *dag.Graph) (*dag.Graph, error) {
	out, _, err := Run(ctx, g)
	return out, err
}

// Run is Propagate that also reports what the pass did.
func Run(ctx context.Context, g *dag.Graph) (*dag.Graph, Stats, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	working := g.Clone()
	// A cycle with no path to a sink would otherwise go unnoticed.
	if err := working.DetectCycles(); err != nil {
		return nil, Stats{}, err
	}
	sinks := working.Sinks()
	p := newPropagator(working, logger)
	for _, sink := range sinks {
		if _, err := p.resolve(sink); err != nil {
			return nil, p.stats, fmt.Errorf("propagating pools from %q: %w", sink, err)
		}
	}

	elapsed := time.Since(start)
	passDuration.Observe(elapsed.Seconds())
	layersVisited.Add(float64(p.stats.Visited))
	layersTagged.Add(float64(p.stats.Tagged))

	logger.Info("Pool propagation finished.",
		"layers", working.Len(),
		"sinks", len(sinks),
		"visited", p.stats.Visited,
		"tagged", p.stats.Tagged,
		"duration", elapsed,
	)
	return working, p.stats, nil
}

// Assignments returns the pool of every layer of g, pool.None for untagged
// layers. It fails on the first layer with an ambiguous tag.
func Assignments(g *dag.Graph) (map[string]pool.Pool, error) {
	out := make(map[string]pool.Pool, g.Len())
	for _, id := range g.IDs() {
		l, _ := g.Layer(id)
		p, err := l.Pool()
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", id, err)
		}
		out[id] = p
	}
	return out, nil
}
