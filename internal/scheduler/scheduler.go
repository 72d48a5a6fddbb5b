package scheduler

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/poolprop/internal/ctxlog"
	"github.com/specialistvlad/poolprop/internal/dag"
)

// Scheduler runs the configured rewrite pipeline over submitted graphs.
//
// A Scheduler holds no per-graph state, so one instance may serve concurrent
// Submit calls.
type Scheduler struct {
	cfg      Config
	pipeline []Optimization
}

// New validates cfg and returns a Scheduler using it.
func New(cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler config: %w", err)
	}
	return &Scheduler{cfg: cfg, pipeline: cfg.pipeline()}, nil
}

// Submit rewrites g according to the configuration and returns the plan for
// running the result. g itself is not modified.
func (s *Scheduler) Submit(ctx context.Context, g *dag.Graph) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Graph submitted.", "layers", g.Len(), "fuse", s.cfg.Fuse, "optimizations", len(s.pipeline))

	current := g
	if s.cfg.Fuse {
		fused, err := Fuse(current)
		if err != nil {
			return nil, fmt.Errorf("fusing layers: %w", err)
		}
		logger.Debug("Linear chains fused.", "before", current.Len(), "after", fused.Len())
		current = fused
	}

	for i, opt := range s.pipeline {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := opt(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("optimization %d: %w", i, err)
		}
		current = next
	}

	waves, err := Waves(current)
	if err != nil {
		return nil, err
	}
	return &Plan{Graph: current, Waves: waves}, nil
}

// Plan is the outcome of Submit.
type Plan struct {
	// Graph is the rewritten graph.
	Graph *dag.Graph
	// Waves groups layer ids so that each layer depends only on layers of
	// earlier waves. Ids inside a wave are sorted.
	Waves [][]string
}

// Waves splits g into dependency levels: roots first, then every layer whose
// dependencies all sit in earlier levels.
func Waves(g *dag.Graph) ([][]string, error) {
	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}

	level := make(map[string]int, len(order))
	var waves [][]string
	for _, id := range order {
		deps, err := g.Dependencies(id)
		if err != nil {
			return nil, err
		}
		lvl := 0
		for _, dep := range deps {
			if level[dep]+1 > lvl {
				lvl = level[dep] + 1
			}
		}
		level[id] = lvl
		for len(waves) <= lvl {
			waves = append(waves, nil)
		}
		waves[lvl] = append(waves[lvl], id)
	}
	// TopoOrder is sorted among ready layers only, not per level.
	for _, wave := range waves {
		sort.Strings(wave)
	}
	return waves, nil
}
