// Package resolve computes, for every node of a graph, the context it
// inherits from its upstream nodes.
//
// Resolution is lazy and memoized. A node's inherited context is the merge of
// the contexts its upstream nodes expose, visited in input-port declaration
// order and then in target order. The context a node exposes is its
// inherited context passed through the type's MapContext. Nodes with no
// upstream, and references to nodes missing from the graph, inherit the base
// context. A dependency cycle fails the whole resolution.
package resolve
