package propagate

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
	"github.com/specialistvlad/poolprop/internal/pool"
)

// DepPool pairs a dependency layer with the pool it resolved to.
type DepPool struct {
	ID   string
	Pool pool.Pool
}

// Lookup gives the picker read access to dependency layers.
type Lookup interface {
	Layer(id string) (*layer.Layer, bool)
}

// outcome classifies a picker decision for metrics and logs.
type outcome string

const (
	outcomeNoCandidates  outcome = "no_candidates"
	outcomeAssigned      outcome = "assigned"
	outcomeUnconstrained outcome = "unconstrained"
)

// poolCost sums in float64 so that several near-MaxInt64 estimates in one
// pool do not wrap around.
type poolCost struct {
	pool pool.Pool
	cost float64
}

// Pick decides which pool a layer should adopt given its dependencies'
// pools, or pool.None to leave it unconstrained.
//
// Dependencies without a pool are ignored. Each candidate pool is costed by the
// total bytes its dependencies produce; if any of those sizes is unknown, key
// counts are used for every pool instead. The most expensive pool wins when
// moving everything else into it transfers less than letting the layer mix
// evenly across all candidate pools.
func Pick(deps []DepPool, g Lookup) (pool.Pool, error) {
	p, _, err := pick(deps, g)
	return p, err
}

func pick(deps []DepPool, g Lookup) (pool.Pool, pickInfo, error) {
	var info pickInfo
	if len(deps) == 0 {
		info.outcome = outcomeNoCandidates
		return pool.None, info, nil
	}

	keyCounts := make(map[pool.Pool]float64)
	byteCounts := make(map[pool.Pool]float64)
	for _, dep := range deps {
		if dep.Pool.IsNone() {
			continue
		}
		l, ok := g.Layer(dep.ID)
		if !ok {
			return pool.None, info, fmt.Errorf("%w: %s", dag.ErrUnknownLayer, dep.ID)
		}
		keyCounts[dep.Pool] += float64(l.Keys)
		if n, ok := layer.EstimateBytes(l); ok {
			byteCounts[dep.Pool] += float64(n)
		} else {
			info.unknownSizes = true
		}
	}

	if len(keyCounts) == 0 {
		info.outcome = outcomeNoCandidates
		return pool.None, info, nil
	}

	costs := byteCounts
	if info.unknownSizes {
		costs = keyCounts
	}
	ranked := make([]poolCost, 0, len(keyCounts))
	for p := range keyCounts {
		ranked = append(ranked, poolCost{pool: p, cost: costs[p]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].cost != ranked[j].cost {
			return ranked[i].cost > ranked[j].cost
		}
		return ranked[i].pool < ranked[j].pool
	})

	biggest := ranked[0]
	info.candidates = len(ranked)
	if len(ranked) == 1 {
		// Nothing to mix with.
		info.outcome = outcomeAssigned
		return biggest.pool, info, nil
	}

	var transferToBiggest float64
	for _, other := range ranked[1:] {
		transferToBiggest += other.cost
	}
	total := transferToBiggest + biggest.cost
	n := float64(len(ranked))
	// Expected cross-pool transfer if the layer's work spreads evenly over
	// all n pools. This assumes uniform fan-in and is known to be a weak
	// estimate for near-balanced inputs.
	transferIfMixed := total * (n - 1) / n

	if transferToBiggest < transferIfMixed {
		info.outcome = outcomeAssigned
		return biggest.pool, info, nil
	}
	info.outcome = outcomeUnconstrained
	return pool.None, info, nil
}

type pickInfo struct {
	outcome      outcome
	candidates   int
	unknownSizes bool
}
