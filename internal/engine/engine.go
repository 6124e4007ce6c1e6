package engine

import (
	"context"
	"fmt"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/network"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/resolve"
)

// Engine runs graphs of one node family.
type Engine[C, P any] struct {
	catalog *nodetype.Catalog[C, P]
}

// New creates an engine over a catalog.
func New[C, P any](catalog *nodetype.Catalog[C, P]) *Engine[C, P] {
	return &Engine[C, P]{catalog: catalog}
}

// Catalog returns the catalog the engine was built with.
func (e *Engine[C, P]) Catalog() *nodetype.Catalog[C, P] {
	return e.catalog
}

// Resolve validates the graph and resolves every node's context.
func (e *Engine[C, P]) Resolve(ctx context.Context, g *graph.Graph, params P) (map[string]*resolve.NodeContext[C], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return resolve.ResolveNodes(ctx, g, e.catalog, params)
}

// Run resolves, checks, builds and starts a network. When start fails the
// network is stopped before the error is returned.
func (e *Engine[C, P]) Run(ctx context.Context, g *graph.Graph, params P) (*network.Network, error) {
	logger := ctxlog.FromContext(ctx)

	nodes, err := e.Resolve(ctx, g, params)
	if err != nil {
		return nil, fmt.Errorf("resolving contexts: %w", err)
	}
	contexts := make(map[string]C, len(nodes))
	for id, nc := range nodes {
		contexts[id] = nc.Context
	}

	for _, d := range e.Check(g, contexts, params) {
		logger.Warn("Formula references an unknown name.", "node", d.NodeID, "field", d.Field, "name", d.Name)
	}

	net, err := network.Build(ctx, g, e.catalog, contexts, params)
	if err != nil {
		return nil, err
	}
	if err := net.Start(); err != nil {
		net.Stop()
		return nil, err
	}
	return net, nil
}

// Rebuild stops prev, if any, and runs the graph again.
func (e *Engine[C, P]) Rebuild(ctx context.Context, prev *network.Network, g *graph.Graph, params P) (*network.Network, error) {
	if prev != nil {
		prev.Stop()
	}
	return e.Run(ctx, g, params)
}
