// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package layer defines the unit of the task graph the pool pass works on: a
// named group of scheduling units sharing dependencies and metadata.
package layer

import (
	"github.com/specialistvlad/poolprop/internal/pool"
)

// Layer is a single vertex in the task graph.
//
// Layers are treated as immutable once they are inserted into a graph. Code
// that needs a different version of a layer (for example, with a pool tag
// added) builds a modified copy with WithPool and replaces the graph entry.
type Layer struct {
	// ID is the unique key of the layer within its graph.
	ID string
	// Keys is the number of individual scheduling units the layer expands to.
	Keys int
	// Resources holds the host's resource requirements. Pool tags live here,
	// encoded as pool.Prefix + name.
	Resources map[string]float64
	// Annotations holds any other host metadata. It is carried but never
	// interpreted by the pool pass.
	Annotations map[string]any
	// Size describes the layer's output for byte-size estimation. Nil for
	// most layer kinds.
	Size *SizeHint
}

// New returns a layer with the given id and key count.
func New(id string, keys int) *Layer {
	return &Layer{ID: id, Keys: keys}
}

// Pool returns the pool tag of the layer, or pool.None. It fails with
// pool.ErrAmbiguousPool when more than one pool entry is present.
func (l *Layer) Pool() (pool.Pool, error) {
	return pool.FromResources(l.Resources)
}

// WithPool returns a shallow copy of l whose resources additionally contain
// p's entry. l itself is left untouched.
func (l *Layer) WithPool(p pool.Pool) *Layer {
	c := *l
	c.Resources = pool.WithResource(l.Resources, p)
	return &c
}
