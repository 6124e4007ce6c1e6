package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/internal/ctxlog"
	"github.com/vk/flowgridgo/internal/engine"
	"github.com/vk/flowgridgo/internal/loader"
	"github.com/vk/flowgridgo/internal/viewpub"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	engine *engine.Engine[chart.Context, chart.Params]
}

// NewApp is the constructor for the main application. Rendered views and
// command output go to outW; logs go to logW. With no modules the built-in
// node types are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...chart.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	catalog := chart.NewCatalog(chart.Params{Variables: cfg.Variables}, modules...)
	logger.Debug("Node types registered.", "count", len(catalog.Registry.Names()), "types", catalog.Registry.Names())

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		engine: engine.New(catalog),
	}
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine[chart.Context, chart.Params] {
	return a.engine
}

// Run loads the graph, runs it once and tears it down. Every rendered view
// is written to the output as a JSON line, or published to the preview
// server when one is configured.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	writer := viewpub.NewJSONWriter(a.outW)
	sinks := []viewpub.Sink{writer}
	if a.config.PreviewURL != "" {
		pub, err := viewpub.Dial(ctx, viewpub.PublisherConfig{
			URL:            a.config.PreviewURL,
			Namespace:      a.config.PreviewNamespace,
			ConnectTimeout: a.config.ConnectTimeout,
		})
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = []viewpub.Sink{pub}
	}

	params := chart.Params{
		Variables:  a.config.Variables,
		RenderView: viewpub.RenderFunc(sinks...),
	}

	a.logger.Info("🚀 Starting graph run...", "nodes", len(g.Nodes))
	net, err := a.engine.Run(ctx, g, params)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	net.Stop()
	a.logger.Info("🏁 Run finished.", "run_id", net.RunID)

	if err := writer.Err(); err != nil {
		return fmt.Errorf("writing views: %w", err)
	}
	return nil
}

// nodeReport is the printed resolution result of one node.
type nodeReport struct {
	Type    string                     `json:"type"`
	Context chart.Context              `json:"context"`
	Parents map[string][]chart.Context `json:"parents,omitempty"`
}

// Contexts loads the graph and prints the resolved context of every node.
func (a *App) Contexts(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	g, err := loader.Load(ctx, a.config.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	nodes, err := a.engine.Resolve(ctx, g, chart.Params{Variables: a.config.Variables})
	if err != nil {
		return fmt.Errorf("resolving contexts: %w", err)
	}

	report := make(map[string]nodeReport, len(nodes))
	for id, nc := range nodes {
		parents := make(map[string][]chart.Context)
		for port, ctxs := range nc.Parents {
			if len(ctxs) > 0 {
				parents[port] = ctxs
			}
		}
		report[id] = nodeReport{Type: g.Nodes[id].Type, Context: nc.Context, Parents: parents}
	}

	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
