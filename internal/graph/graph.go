package graph

import (
	"fmt"
	"sort"
)

// TargetPort is an edge endpoint naming an upstream node and its output port.
type TargetPort struct {
	Node string `json:"node" yaml:"node" validate:"required"`
	Port string `json:"port" yaml:"port" validate:"required"`
}

// String implements fmt.Stringer.
func (t TargetPort) String() string {
	return t.Node + "." + t.Port
}

// Ports lists, per input port, the upstream targets wired into it. Output
// ports are implicit in the node type.
type Ports struct {
	In map[string][]TargetPort `json:"in,omitempty" yaml:"in,omitempty" validate:"dive,dive"`
}

// Node is one vertex of the graph definition.
type Node struct {
	ID     string         `json:"id" yaml:"id" validate:"required"`
	Type   string         `json:"type" yaml:"type" validate:"required"`
	Fields map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
	Ports  Ports          `json:"ports" yaml:"ports"`
}

// Field returns the stored value of a field, or nil.
func (n *Node) Field(name string) any {
	if n.Fields == nil {
		return nil
	}
	return n.Fields[name]
}

// Inputs returns the targets wired into one input port.
func (n *Node) Inputs(port string) []TargetPort {
	if n.Ports.In == nil {
		return nil
	}
	return n.Ports.In[port]
}

// Graph is the full definition: nodes keyed by id.
type Graph struct {
	Nodes map[string]*Node `json:"nodes" yaml:"nodes" validate:"dive"`
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddNode adds a node of the given type with the given field values. The
// node is returned so callers can keep configuring it.
func (g *Graph) AddNode(id, nodeType string, fields map[string]any) *Node {
	if fields == nil {
		fields = make(map[string]any)
	}
	n := &Node{
		ID:     id,
		Type:   nodeType,
		Fields: fields,
		Ports:  Ports{In: make(map[string][]TargetPort)},
	}
	g.Nodes[id] = n
	return n
}

// Connect wires output port fromPort of node fromID into input port toPort
// of node toID. Repeated calls on the same input port fan in.
func (g *Graph) Connect(fromID, fromPort, toID, toPort string) error {
	to, ok := g.Nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	if to.Ports.In == nil {
		to.Ports.In = make(map[string][]TargetPort)
	}
	to.Ports.In[toPort] = append(to.Ports.In[toPort], TargetPort{Node: fromID, Port: fromPort})
	return nil
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// NodeIDs returns every node id in lexical order. The runtime uses this
// order for construction, wiring and start.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
