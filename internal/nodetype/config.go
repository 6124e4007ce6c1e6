package nodetype

import (
	"context"
	"maps"

	"github.com/vk/flowgridgo/internal/graph"
	"github.com/vk/flowgridgo/internal/processor"
)

// FieldKind tells editors and the checker how a field value is interpreted.
type FieldKind string

const (
	FieldText         FieldKind = "text"
	FieldNumber       FieldKind = "number"
	FieldCheck        FieldKind = "check"
	FieldSelect       FieldKind = "select"
	FieldFormula      FieldKind = "formula"
	FieldColumnMapper FieldKind = "columnMapper"
	FieldColumnSelect FieldKind = "columnSelect"
	FieldEntries      FieldKind = "entries"
	FieldRows         FieldKind = "rows"
	FieldList         FieldKind = "list"
)

// PortConfig declares one port of a node type.
type PortConfig struct {
	Name string
	// Type is a display tag for the values carried, like "row[]".
	Type string
	// Multi marks an input port that accepts several upstream targets.
	Multi bool
}

// FieldConfig declares one configurable field.
type FieldConfig struct {
	Name    string
	Label   string
	Kind    FieldKind
	Initial any
	Options []string
}

// MapContextFunc derives the context a node exposes downstream from the one
// it inherited.
type MapContextFunc[C, P any] func(node *graph.Node, inherited C, params P) C

// CreateProcessorFunc builds the live processor of a node.
type CreateProcessorFunc[C, P any] func(ctx context.Context, node *graph.Node, nodeCtx C, params P) (processor.Processor, error)

// Config is the static description of one node type.
type Config[C, P any] struct {
	Title       string
	Description string
	In          []PortConfig
	Out         []PortConfig
	Fields      []FieldConfig

	// MapContext is optional; when nil a node passes its inherited context
	// through unchanged.
	MapContext      MapContextFunc[C, P]
	CreateProcessor CreateProcessorFunc[C, P]
}

// InPortNames returns the input port names in declaration order.
func (c *Config[C, P]) InPortNames() []string {
	return portNames(c.In)
}

// OutPortNames returns the output port names in declaration order.
func (c *Config[C, P]) OutPortNames() []string {
	return portNames(c.Out)
}

func portNames(ports []PortConfig) []string {
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

// Field returns the declaration of a field by name.
func (c *Config[C, P]) Field(name string) (FieldConfig, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldConfig{}, false
}

// Apply maps an inherited context through MapContext, if the type has one.
func (c *Config[C, P]) Apply(node *graph.Node, inherited C, params P) C {
	if c.MapContext == nil {
		return inherited
	}
	return c.MapContext(node, inherited, params)
}

// WithDefaults returns a shallow copy of node whose absent or null fields
// carry the declared initial values. Explicit values, including zero values
// such as 0, false and "", are kept. The stored node is never modified.
func (c *Config[C, P]) WithDefaults(node *graph.Node) *graph.Node {
	fields := make(map[string]any, len(node.Fields)+len(c.Fields))
	maps.Copy(fields, node.Fields)
	for _, f := range c.Fields {
		if f.Initial == nil {
			continue
		}
		if v, ok := fields[f.Name]; !ok || v == nil {
			fields[f.Name] = f.Initial
		}
	}

	out := *node
	out.Fields = fields
	return &out
}
