// Package scheduler prepares a task graph for execution.
//
// # Why Scheduler Exists
//
// Graphs are built by user code and then handed over for execution. Between
// the two, a configurable pipeline rewrites the graph: optional low-level
// fusion of linear chains, then graph optimizations such as pool propagation.
// The scheduler owns that pipeline and the order in which layers may run.
//
// # How It Works
//
//  1. Config is validated once, when the Scheduler is created.
//  2. Submit fuses linear chains when Config.Fuse is set.
//  3. Submit runs every optimization in order, each receiving the previous
//     result.
//  4. The final graph is split into waves: every layer of a wave depends only
//     on layers of earlier waves, so a wave's layers can run in parallel.
//
// # Fusion And Pools
//
// Fusion merges each chain into one layer and unions the resources of its
// members without looking at them. A chain crossing a pool boundary would
// come out carrying two pools, or hide the boundary from propagation. Pool
// propagation therefore requires fusion to be off; Config.Validate enforces
// it.
package scheduler
