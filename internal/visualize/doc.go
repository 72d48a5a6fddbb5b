// Package visualize renders pool assignments for people: Graphviz DOT for
// drawings and a colored table for terminals. It only reads pools; it never
// decides them.
package visualize
