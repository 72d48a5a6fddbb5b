// Package propagate infers worker pools for untagged layers of a task graph.
//
// # Why Propagation Exists
//
// Users tag a few layers, typically the ones that load data, with the pool
// whose workers should run them. Everything computed downstream of that data
// should usually run in the same pool so the data does not have to move.
// Tagging every layer by hand is impractical, so this pass infers tags for
// untagged layers from their dependencies.
//
// # How It Works
//
//  1. Propagate clones the graph and collects its sinks.
//  2. From each sink, an explicit-stack post-order walk resolves every
//     dependency before the layer itself. Results are memoized per layer, so
//     shared dependencies (diamonds, wide fan-in) are decided exactly once.
//  3. A layer that already has a pool keeps it and its inputs are not
//     inspected. A layer with no dependencies never receives a pool.
//  4. Any other layer asks Pick for a pool based on its immediate
//     dependencies' pools and output sizes. A chosen pool is written to a
//     copy of the layer, which replaces it in the working graph.
//
// The pass is greedy and local: it never looks past a layer's immediate
// dependencies nor at the layer's consumers.
//
// # Concurrency
//
// A pass is synchronous and never modifies its input graph, so concurrent
// passes over distinct or shared input graphs are safe as long as nobody
// mutates those graphs meanwhile.
package propagate
