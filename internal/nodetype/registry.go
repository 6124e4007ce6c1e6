package nodetype

import (
	"fmt"
	"sort"
)

// Module is implemented by every package that contributes node types.
type Module[C, P any] interface {
	Register(r *Registry[C, P])
}

// Registry maps type names to their configuration.
type Registry[C, P any] struct {
	types map[string]*Config[C, P]
}

// NewRegistry creates an empty registry.
func NewRegistry[C, P any]() *Registry[C, P] {
	return &Registry[C, P]{types: make(map[string]*Config[C, P])}
}

// Register adds a node type. Registering a name twice is a programming error
// and panics.
func (r *Registry[C, P]) Register(name string, cfg *Config[C, P]) {
	if _, exists := r.types[name]; exists {
		panic(fmt.Sprintf("node type '%s' registered twice", name))
	}
	if cfg.CreateProcessor == nil {
		panic(fmt.Sprintf("node type '%s' has no processor constructor", name))
	}
	r.types[name] = cfg
}

// Lookup returns the configuration of a node type.
func (r *Registry[C, P]) Lookup(name string) (*Config[C, P], bool) {
	cfg, ok := r.types[name]
	return cfg, ok
}

// Names returns the registered type names, sorted.
func (r *Registry[C, P]) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog is everything the resolver and the network need besides the graph.
type Catalog[C, P any] struct {
	Registry *Registry[C, P]
	// Context is the base context of nodes with no upstream.
	Context C
	// Params is used when a caller supplies none.
	Params P
	// Merge combines contexts inherited over several edges. When nil the
	// first inherited context wins.
	Merge func(a, b C) C
}

// NewCatalog creates a catalog and registers every module into it.
func NewCatalog[C, P any](base C, params P, merge func(a, b C) C, modules ...Module[C, P]) *Catalog[C, P] {
	c := &Catalog[C, P]{
		Registry: NewRegistry[C, P](),
		Context:  base,
		Params:   params,
		Merge:    merge,
	}
	for _, m := range modules {
		m.Register(c.Registry)
	}
	return c
}

// MergeContexts applies the catalog's merge function.
func (c *Catalog[C, P]) MergeContexts(a, b C) C {
	if c.Merge == nil {
		return a
	}
	return c.Merge(a, b)
}
