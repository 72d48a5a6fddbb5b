// Package dag holds the task graph the pool pass reads and rewrites: a set of
// layers keyed by id plus the dependency and dependent views over them.
//
// Acyclicity is the responsibility of whoever builds the graph. DetectCycles
// and TopoOrder are available to builders that want to check it.
package dag
