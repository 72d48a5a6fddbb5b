package scheduler

import (
	"fmt"

	"github.com/specialistvlad/poolprop/internal/dag"
	"github.com/specialistvlad/poolprop/internal/layer"
)

// FusedAnnotation lists, in chain order, the ids of the layers merged into a
// fused layer.
const FusedAnnotation = "fused"

// linearChains finds maximal chains where each layer feeds exactly one
// consumer and that consumer reads from nothing else. Chains of one layer are
// included, so every layer appears in exactly one chain.
func linearChains(g *dag.Graph, order []string) ([][]string, error) {
	visited := make(map[string]bool, len(order))
	var chains [][]string

	for _, id := range order {
		if visited[id] {
			continue
		}

		chain := []string{id}
		visited[id] = true

		current := id
		for {
			dependents, err := g.Dependents(current)
			if err != nil {
				return nil, err
			}
			if len(dependents) != 1 {
				break
			}
			next := dependents[0]
			deps, err := g.Dependencies(next)
			if err != nil {
				return nil, err
			}
			if len(deps) != 1 || visited[next] {
				break
			}

			chain = append(chain, next)
			visited[next] = true
			current = next
		}

		chains = append(chains, chain)
	}

	return chains, nil
}

// Fuse merges every linear chain of g into one layer named after the chain's
// last layer. The fused layer takes the last layer's keys and size, and the
// union of all members' resources and annotations. Nothing is interpreted,
// so pool tags of different members end up side by side.
func Fuse(g *dag.Graph) (*dag.Graph, error) {
	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}
	chains, err := linearChains(g, order)
	if err != nil {
		return nil, err
	}

	out := dag.New()
	owner := make(map[string]string, len(order))
	for _, chain := range chains {
		fused, err := fuseChain(g, chain)
		if err != nil {
			return nil, err
		}
		if err := out.AddLayer(fused); err != nil {
			return nil, err
		}
		for _, id := range chain {
			owner[id] = fused.ID
		}
	}

	for _, chain := range chains {
		head, tail := chain[0], owner[chain[0]]
		deps, err := g.Dependencies(head)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			if err := out.AddEdge(owner[dep], tail); err != nil {
				return nil, fmt.Errorf("rewiring fused chain %q: %w", tail, err)
			}
		}
	}
	return out, nil
}

func fuseChain(g *dag.Graph, chain []string) (*layer.Layer, error) {
	last, ok := g.Layer(chain[len(chain)-1])
	if !ok {
		return nil, fmt.Errorf("%w: %s", dag.ErrUnknownLayer, chain[len(chain)-1])
	}
	if len(chain) == 1 {
		return last, nil
	}

	fused := &layer.Layer{
		ID:          last.ID,
		Keys:        last.Keys,
		Size:        last.Size,
		Resources:   make(map[string]float64),
		Annotations: make(map[string]any),
	}
	for _, id := range chain {
		l, ok := g.Layer(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", dag.ErrUnknownLayer, id)
		}
		for k, v := range l.Resources {
			fused.Resources[k] = v
		}
		for k, v := range l.Annotations {
			fused.Annotations[k] = v
		}
	}
	fused.Annotations[FusedAnnotation] = append([]string(nil), chain...)
	return fused, nil
}
