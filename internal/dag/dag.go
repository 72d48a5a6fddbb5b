package dag

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/poolprop/internal/layer"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		layers:     make(map[string]*layer.Layer),
		deps:       make(map[string]map[string]struct{}),
		dependents: make(map[string]map[string]struct{}),
	}
}

// AddLayer adds l to the graph. Adding the same layer twice does nothing;
// adding a different layer under an existing id is an error.
func (g *Graph) AddLayer(l *layer.Layer) error {
	if l == nil || l.ID == "" {
		return fmt.Errorf("layer id is required")
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if existing, ok := g.layers[l.ID]; ok {
		if existing == l {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateLayer, l.ID)
	}

	g.layers[l.ID] = l
	g.deps[l.ID] = make(map[string]struct{})
	g.dependents[l.ID] = make(map[string]struct{})
	return nil
}

// AddEdge creates a directed edge from the `fromID` layer to the `toID` layer.
// This signifies that `toID` reads from `fromID`. An error is returned if
// either layer does not exist or if the edge would create a self-reference.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.layers[fromID]; !ok {
		return fmt.Errorf("source %w: %s", ErrUnknownLayer, fromID)
	}
	if _, ok := g.layers[toID]; !ok {
		return fmt.Errorf("destination %w: %s", ErrUnknownLayer, toID)
	}

	g.deps[toID][fromID] = struct{}{}
	g.dependents[fromID][toID] = struct{}{}
	return nil
}

// Layer returns the layer stored under id.
func (g *Graph) Layer(id string) (*layer.Layer, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	l, ok := g.layers[id]
	return l, ok
}

// Replace points l.ID at l. The id must already exist; edges are unchanged.
func (g *Graph) Replace(l *layer.Layer) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.layers[l.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLayer, l.ID)
	}
	g.layers[l.ID] = l
	return nil
}

// Len returns the number of layers.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.layers)
}

// IDs returns all layer ids in ascending order.
func (g *Graph) IDs() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return sortedKeys(g.layers)
}

// Dependencies returns the ids of the layers id reads from, in ascending order.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	set, ok := g.deps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	return sortedKeys(set), nil
}

// Dependents returns the ids of the layers reading from id, in ascending order.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	set, ok := g.dependents[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayer, id)
	}
	return sortedKeys(set), nil
}

// Sinks returns the layers nothing reads from: the final outputs of the graph.
func (g *Graph) Sinks() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return filterEmpty(g.dependents)
}

// Clone returns a graph with the same topology that shares layer values with
// g. Replacing a layer in the clone does not affect g.
func (g *Graph) Clone() *Graph {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	c := &Graph{
		layers:     make(map[string]*layer.Layer, len(g.layers)),
		deps:       make(map[string]map[string]struct{}, len(g.deps)),
		dependents: make(map[string]map[string]struct{}, len(g.dependents)),
	}
	for id, l := range g.layers {
		c.layers[id] = l
	}
	for id, set := range g.deps {
		c.deps[id] = copySet(set)
	}
	for id, set := range g.dependents {
		c.dependents[id] = copySet(set)
	}
	return c
}

// Merge returns the union of several graphs. Graphs built from a common
// ancestor may share layers; two different layers with the same id are an
// error.
func Merge(graphs ...*Graph) (*Graph, error) {
	out := New()
	for _, g := range graphs {
		g.mutex.RLock()
		for _, id := range sortedKeys(g.layers) {
			if err := out.AddLayer(g.layers[id]); err != nil {
				g.mutex.RUnlock()
				return nil, err
			}
		}
		for to, set := range g.deps {
			for from := range set {
				out.deps[to][from] = struct{}{}
				out.dependents[from][to] = struct{}{}
			}
		}
		g.mutex.RUnlock()
	}
	return out, nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first layer involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// permanent: layers fully visited and not part of a cycle.
	// temporary: layers on the current DFS path.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("%w involving layer '%s'", ErrCycle, id)
		}

		temporary[id] = true
		for _, dependent := range sortedKeys(g.dependents[id]) {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range sortedKeys(g.layers) {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// TopoOrder returns the layer ids so that every layer comes after all of its
// dependencies. Ties are broken by id, so the order is deterministic.
func (g *Graph) TopoOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	inDegree := make(map[string]int, len(g.layers))
	for id, set := range g.deps {
		inDegree[id] = len(set)
	}

	queue := filterEmpty(g.deps)
	order := make([]string, 0, len(g.layers))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		var ready []string
		for dependent := range g.dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		sort.Strings(ready)
		queue = append(queue, ready...)
		sort.Strings(queue)
	}

	if len(order) != len(g.layers) {
		return nil, fmt.Errorf("%w: %d of %d layers are unreachable in topological order", ErrCycle, len(g.layers)-len(order), len(g.layers))
	}
	return order, nil
}
