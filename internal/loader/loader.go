package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/graph"
)

// Format names a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// ErrUnsupportedFormat is returned for files whose extension names no known format.
var ErrUnsupportedFormat = errors.New("unsupported graph file format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads a graph from path. A directory is read as a set of HCL files.
func Load(ctx context.Context, path string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}
	if info.IsDir() {
		return LoadHCL(ctx, path)
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == FormatHCL {
		return LoadHCL(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph: %w", err)
	}
	g, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	logger.Debug("Graph loaded.", "path", path, "format", format, "nodes", len(g.Nodes))
	return g, nil
}

// Decode parses a JSON or YAML graph document.
func Decode(format Format, data []byte) (*graph.Graph, error) {
	var (
		g   *graph.Graph
		err error
	)
	switch format {
	case FormatJSON:
		g, err = decodeJSON(data)
	case FormatYAML:
		g, err = decodeYAML(data)
	case FormatHCL:
		g, err = decodeHCL(data, "graph.hcl")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	normalize(g)
	return g, nil
}

// normalize fills node ids from their keys and allocates empty maps.
func normalize(g *graph.Graph) {
	if g.Nodes == nil {
		g.Nodes = make(map[string]*graph.Node)
	}
	for id, n := range g.Nodes {
		if n == nil {
			continue
		}
		if n.ID == "" {
			n.ID = id
		}
		if n.Fields == nil {
			n.Fields = make(map[string]any)
		}
		if n.Ports.In == nil {
			n.Ports.In = make(map[string][]graph.TargetPort)
		}
	}
}
