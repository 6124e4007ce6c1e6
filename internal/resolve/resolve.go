package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
)

// ErrUnknownNodeType is returned when a node names a type missing from the registry.
var ErrUnknownNodeType = errors.New("unknown node type")

// CyclicDependencyError reports a dependency cycle. Path starts and ends with
// the same node id.
type CyclicDependencyError struct {
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(e.Path, " -> "))
}

// NodeContext is the full resolution result of one node.
type NodeContext[C any] struct {
	// Context is the inherited context, before the node's own MapContext.
	Context C
	// Parents holds, per input port, the contexts exposed by each target.
	Parents map[string][]C
}

// Resolve returns the inherited context of every node in the graph.
func Resolve[C, P any](ctx context.Context, g *graph.Graph, cat *nodetype.Catalog[C, P], params P) (map[string]C, error) {
	nodes, err := ResolveNodes(ctx, g, cat, params)
	if err != nil {
		return nil, err
	}
	out := make(map[string]C, len(nodes))
	for id, nc := range nodes {
		out[id] = nc.Context
	}
	return out, nil
}

// ResolveNodes is Resolve with per-port parent contexts kept.
func ResolveNodes[C, P any](ctx context.Context, g *graph.Graph, cat *nodetype.Catalog[C, P], params P) (map[string]*NodeContext[C], error) {
	r := &resolver[C, P]{
		ctx:      ctx,
		g:        g,
		cat:      cat,
		params:   params,
		done:     make(map[string]*NodeContext[C], len(g.Nodes)),
		visiting: make(map[string]bool),
	}
	for _, id := range g.NodeIDs() {
		if _, err := r.exposed(id); err != nil {
			return nil, err
		}
	}
	ctxlog.FromContext(ctx).Debug("Resolved node contexts.", "nodes", len(r.done))
	return r.done, nil
}

type resolver[C, P any] struct {
	ctx    context.Context
	g      *graph.Graph
	cat    *nodetype.Catalog[C, P]
	params P

	done     map[string]*NodeContext[C]
	visiting map[string]bool
	stack    []string
}

// exposed returns the context node id exposes downstream. The memo holds the
// inherited context, so MapContext runs again on every visit.
func (r *resolver[C, P]) exposed(id string) (C, error) {
	n, ok := r.g.Node(id)
	if !ok || n == nil {
		return r.cat.Context, nil
	}
	cfg, ok := r.cat.Registry.Lookup(n.Type)
	if !ok {
		var zero C
		return zero, fmt.Errorf("node '%s': %w '%s'", id, ErrUnknownNodeType, n.Type)
	}
	node := cfg.WithDefaults(n)

	if nc, ok := r.done[id]; ok {
		return cfg.Apply(node, nc.Context, r.params), nil
	}

	inherited, err := r.inherit(id, node, cfg)
	if err != nil {
		var zero C
		return zero, err
	}
	return cfg.Apply(node, inherited, r.params), nil
}

func (r *resolver[C, P]) inherit(id string, node *graph.Node, cfg *nodetype.Config[C, P]) (C, error) {
	if r.visiting[id] {
		var zero C
		return zero, r.cycle(id)
	}
	r.visiting[id] = true
	r.stack = append(r.stack, id)
	defer func() {
		delete(r.visiting, id)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	var merged C
	seen := false
	parents := make(map[string][]C, len(cfg.In))
	for _, port := range cfg.In {
		targets := node.Inputs(port.Name)
		contexts := make([]C, 0, len(targets))
		for _, target := range targets {
			c, err := r.exposed(target.Node)
			if err != nil {
				var zero C
				return zero, err
			}
			contexts = append(contexts, c)
			if !seen {
				merged, seen = c, true
			} else {
				merged = r.cat.MergeContexts(merged, c)
			}
		}
		parents[port.Name] = contexts
	}
	if !seen {
		merged = r.cat.Context
	}

	r.done[id] = &NodeContext[C]{Context: merged, Parents: parents}
	ctxlog.FromContext(r.ctx).Debug("Resolved node context.", "node", id, "type", node.Type)
	return merged, nil
}

func (r *resolver[C, P]) cycle(id string) error {
	start := 0
	for i, s := range r.stack {
		if s == id {
			start = i
			break
		}
	}
	path := append([]string{}, r.stack[start:]...)
	path = append(path, id)
	return &CyclicDependencyError{Path: path}
}
