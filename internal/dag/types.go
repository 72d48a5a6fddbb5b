package dag

import (
	"errors"
	"sync"

	"github.com/specialistvlad/poolprop/internal/layer"
)

var (
	// ErrUnknownLayer is returned when an id does not name a layer of the graph.
	ErrUnknownLayer = errors.New("layer not found")
	// ErrDuplicateLayer is returned when a different layer already uses an id.
	ErrDuplicateLayer = errors.New("duplicate layer")
	// ErrCycle is returned by DetectCycles and TopoOrder for cyclic graphs.
	ErrCycle = errors.New("cycle detected")
)

// Graph is a collection of layers and their dependencies, representing a DAG.
// All operations on the graph are concurrency-safe.
//
// Layers are shared, not copied, between a graph and its clones. A clone may
// point an id at a different layer with Replace without affecting the graph it
// was cloned from.
type Graph struct {
	// mutex protects the maps below during concurrent access.
	mutex sync.RWMutex
	// layers stores all layers in the graph, keyed by their unique ID.
	layers map[string]*layer.Layer
	// deps holds, per layer, the set of layers it reads from (predecessors).
	deps map[string]map[string]struct{}
	// dependents holds, per layer, the set of layers reading from it (successors).
	dependents map[string]map[string]struct{}
}
