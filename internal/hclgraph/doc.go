// Package hclgraph reads and writes task graphs as HCL files.
//
// # Why HCL Graph Files Exist
//
// The pool pass works on graphs a host hands it. To run the pass from the
// command line, or to keep example graphs next to tests, graphs need a
// textual form. HCL keeps those files readable and gives line-accurate
// diagnostics for mistakes.
//
// # File Format
//
// Every top-level `layer` block declares one layer. `pool` blocks tag the
// layers declared inside them and may nest.
//
//	layer "load" {
//	  keys      = 8
//	  resources = { GPU = 1 }
//	  array {
//	    shape = [100000, null] # null: unknown dimension
//	    dtype = "float64"
//	  }
//	}
//
//	pool "gpu" {
//	  layer "train" {
//	    depends_on  = ["load"]
//	    annotations = { retries = 2 }
//	    dataframe {
//	      partitions = 4
//	      columns    = { loss = "float32", tag = "object" }
//	    }
//	  }
//	}
//
// keys defaults to 1. A layer carries at most one of array and dataframe.
// Dependencies may point at layers in other files of the same Load call.
// A pool tag can also be written directly as a `pool-<name>` resource entry,
// which is what Write produces.
package hclgraph
