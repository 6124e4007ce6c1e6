package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/expr"
	"github.com/vk/flowgridgo/internal/graph"
)

// fileRoot decodes every top-level block of a graph file.
type fileRoot struct {
	Nodes  []*nodeBlock `hcl:"node,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type nodeBlock struct {
	ID     string         `hcl:"id,label"`
	Type   string         `hcl:"type"`
	Fields hcl.Expression `hcl:"fields,optional"`
	Inputs []*inputBlock  `hcl:"input,block"`
}

type inputBlock struct {
	Port string   `hcl:"port,label"`
	From []string `hcl:"from"`
}

// LoadHCL reads every .hcl file under paths into one graph. Missing paths
// are skipped.
func LoadHCL(ctx context.Context, paths ...string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	g := graph.New()
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := decodeHCLBody(f.Body, g); err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
	}
	normalize(g)
	logger.Debug("HCL loading complete.", "nodes", len(g.Nodes))
	return g, nil
}

func decodeHCL(data []byte, filename string) (*graph.Graph, error) {
	f, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	g := graph.New()
	if err := decodeHCLBody(f.Body, g); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeHCLBody(body hcl.Body, g *graph.Graph) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return diags
	}

	for _, b := range root.Nodes {
		if _, exists := g.Nodes[b.ID]; exists {
			return fmt.Errorf("node '%s' is declared twice", b.ID)
		}
		fields, err := decodeFields(b)
		if err != nil {
			return err
		}
		n := g.AddNode(b.ID, b.Type, fields)
		for _, in := range b.Inputs {
			for _, ref := range in.From {
				target, err := parseTarget(ref)
				if err != nil {
					return fmt.Errorf("node '%s', input '%s': %w", b.ID, in.Port, err)
				}
				n.Ports.In[in.Port] = append(n.Ports.In[in.Port], target)
			}
		}
	}
	return nil
}

// decodeFields evaluates the fields object with no variables; formulas stay
// strings and are compiled later.
func decodeFields(b *nodeBlock) (map[string]any, error) {
	fields := make(map[string]any)
	if b.Fields == nil {
		return fields, nil
	}
	val, diags := b.Fields.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("node '%s' fields: %w", b.ID, diags)
	}
	if val.IsNull() {
		return fields, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("node '%s' fields: expected an object, got %s", b.ID, val.Type().FriendlyName())
	}
	native, err := expr.FromCty(val)
	if err != nil {
		return nil, fmt.Errorf("node '%s' fields: %w", b.ID, err)
	}
	if m, ok := native.(map[string]any); ok {
		return m, nil
	}
	return fields, nil
}

// parseTarget splits "node.port". Node ids may themselves contain dots.
func parseTarget(ref string) (graph.TargetPort, error) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return graph.TargetPort{}, fmt.Errorf("invalid target '%s', expected 'node.port'", ref)
	}
	return graph.TargetPort{Node: ref[:i], Port: ref[i+1:]}, nil
}

// findHCLFiles walks paths and returns every .hcl file found, once.
func findHCLFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
