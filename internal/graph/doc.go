// Package graph holds the graph definition the runtime consumes: nodes keyed
// by id, each with a type tag, field values and the upstream targets wired
// into each of its input ports.
//
// The definition is produced by the editor layer and is only read here.
// Acyclicity is not guaranteed by construction; cycles are detected when
// contexts are resolved.
package graph
