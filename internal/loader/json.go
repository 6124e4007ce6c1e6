package loader

import (
	json "github.com/goccy/go-json"
	"github.com/vk/flowgridgo/internal/graph"
	yaml "gopkg.in/yaml.v3"
)

func decodeJSON(data []byte) (*graph.Graph, error) {
	var g graph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func decodeYAML(data []byte) (*graph.Graph, error) {
	var g graph.Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Encode writes a graph as indented JSON.
func Encode(g *graph.Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
