package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/nodetype"
	"github.com/vk/flowgridgo/internal/processor"
	"github.com/vk/flowgridgo/internal/resolve"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("network already started")
	// ErrNotPushable is returned when Push targets a node that takes no external values.
	ErrNotPushable = errors.New("node does not accept pushed values")
	// ErrNilNode is returned when the graph holds a nil node.
	ErrNilNode = errors.New("node is nil")
)

// Network is one instantiated run of a graph.
type Network struct {
	RunID string

	order      []string
	processors map[string]processor.Processor
	logger     *slog.Logger
	started    bool
	stopped    bool
}

// Build constructs and wires a processor for every node. contexts holds the
// resolved inherited context per node; nodes missing from it get the base
// context.
func Build[C, P any](ctx context.Context, g *graph.Graph, cat *nodetype.Catalog[C, P], contexts map[string]C, params P) (*Network, error) {
	runID := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("run_id", runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	n := &Network{
		RunID:      runID,
		order:      g.NodeIDs(),
		processors: make(map[string]processor.Processor, len(g.Nodes)),
		logger:     logger,
	}

	configs := make(map[string]*nodetype.Config[C, P], len(n.order))
	nodes := make(map[string]*graph.Node, len(n.order))
	for _, id := range n.order {
		raw := g.Nodes[id]
		if raw == nil {
			n.teardown()
			return nil, &ProcessorConstructionError{NodeID: id, Err: ErrNilNode}
		}
		cfg, ok := cat.Registry.Lookup(raw.Type)
		if !ok {
			n.teardown()
			return nil, &ProcessorConstructionError{NodeID: id, Type: raw.Type, Err: resolve.ErrUnknownNodeType}
		}
		node := cfg.WithDefaults(raw)
		nodeCtx, ok := contexts[id]
		if !ok {
			nodeCtx = cat.Context
		}

		p, err := cfg.CreateProcessor(ctxlog.WithLogger(ctx, logger.With("node", id)), node, nodeCtx, params)
		if err != nil {
			n.teardown()
			return nil, &ProcessorConstructionError{NodeID: id, Type: raw.Type, Err: err}
		}
		if p == nil {
			n.teardown()
			return nil, &ProcessorConstructionError{NodeID: id, Type: raw.Type, Err: errors.New("constructor returned no processor")}
		}
		n.processors[id] = p
		configs[id] = cfg
		nodes[id] = node
		logger.Debug("Constructed processor.", "node", id, "type", raw.Type)
	}

	for _, id := range n.order {
		if err := n.wire(id, nodes[id], configs[id].InPortNames()); err != nil {
			n.teardown()
			return nil, err
		}
	}

	logger.Info("Network built.", "nodes", len(n.order))
	return n, nil
}

func (n *Network) wire(id string, node *graph.Node, ports []string) error {
	p := n.processors[id]
	for _, port := range ports {
		for _, target := range node.Inputs(port) {
			upstream, ok := n.processors[target.Node]
			if !ok {
				n.logger.Warn("Skipping edge from missing node.", "node", id, "port", port, "from", target.String())
				continue
			}
			if err := p.RegisterProcessor(port, target.Port, upstream); err != nil {
				return &WiringError{NodeID: id, Port: port, From: target.String(), Err: err}
			}
		}
	}
	return nil
}

// Start runs every OnStart hook in node order. The first failure is
// returned; the caller should Stop the network.
func (n *Network) Start() error {
	if n.started {
		return ErrAlreadyStarted
	}
	n.started = true
	for _, id := range n.order {
		s, ok := n.processors[id].(processor.Starter)
		if !ok {
			continue
		}
		if err := s.OnStart(); err != nil {
			n.logger.Error("Node failed during start.", "node", id, "error", err)
			return &PropagationError{NodeID: id, Err: err}
		}
	}
	n.logger.Info("Network started.")
	return nil
}

// Stop runs every OnStop hook in reverse node order. Calling it again is a no-op.
func (n *Network) Stop() {
	if n.stopped {
		return
	}
	n.stopped = true
	n.teardown()
	n.logger.Info("Network stopped.")
}

func (n *Network) teardown() {
	for i := len(n.order) - 1; i >= 0; i-- {
		if s, ok := n.processors[n.order[i]].(processor.Stopper); ok {
			s.OnStop()
		}
	}
}

// Processor returns the live processor of a node.
func (n *Network) Processor(id string) (processor.Processor, bool) {
	p, ok := n.processors[id]
	return p, ok
}

// Push hands an external value to a source node and propagates it.
func (n *Network) Push(id string, value any) error {
	p, ok := n.processors[id]
	if !ok {
		return fmt.Errorf("push to node '%s': node not found", id)
	}
	pusher, ok := p.(processor.Pusher)
	if !ok {
		return fmt.Errorf("push to node '%s': %w", id, ErrNotPushable)
	}
	if err := pusher.Push(value); err != nil {
		return &PropagationError{NodeID: id, Err: err}
	}
	return nil
}

// NodeIDs returns the node ids in construction order.
func (n *Network) NodeIDs() []string {
	return append([]string(nil), n.order...)
}
