// Package nodetype holds the static, per-type description of nodes: their
// declared ports, their fields, how they transform the inherited context, and
// how they build a live processor. Types are collected in a Registry, and a
// Catalog pairs a registry with the base context, base params and the context
// merge function the resolver and the network need.
//
// The package is generic over the context type C and the params type P so the
// runtime stays independent of any concrete node family.
package nodetype
