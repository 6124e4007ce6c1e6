package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgridgo/internal/viewpub"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

const ordersGraph = `{
  "nodes": {
    "orders": {
      "type": "datasource",
      "fields": {"data": [
        {"id": 1, "region": "eu", "total": 30},
        {"id": 2, "region": "us", "total": 50},
        {"id": 3, "region": "eu", "total": 10}
      ]}
    },
    "big": {
      "type": "filter",
      "fields": {"condition": "=row.total >= threshold"},
      "ports": {"in": {"rows": [{"node": "orders", "port": "rows"}]}}
    },
    "sorted": {
      "type": "sort-by",
      "fields": {"column": "total"},
      "ports": {"in": {"rows": [{"node": "big", "port": "rows"}]}}
    },
    "grid": {
      "type": "grid-view",
      "fields": {"name": "orders"},
      "ports": {"in": {"rows": [{"node": "sorted", "port": "rows"}]}}
    }
  }
}`

func setupApp(t *testing.T, graphJSON string, vars map[string]any) (*App, *bytes.Buffer, *SafeBuffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(graphJSON), 0o600))

	cfg, err := NewConfig(Config{GraphPath: path, LogLevel: "debug", Variables: vars})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("FLOWGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return NewApp(out, logs, cfg), out, logs
}

func TestApp_Run(t *testing.T) {
	// --- Arrange ---
	a, out, logs := setupApp(t, ordersGraph, map[string]any{"threshold": "20"})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var msg viewpub.Message
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &msg))
	assert.Equal(t, "orders", msg.View)
	require.Len(t, msg.Data, 2)
	assert.Equal(t, 30.0, msg.Data[0]["total"])
	assert.Equal(t, 50.0, msg.Data[1]["total"])
	assert.Contains(t, logs.String(), "Network started.")
}

func TestApp_RunSurfacesBuildErrors(t *testing.T) {
	a, _, _ := setupApp(t, `{"nodes": {"x": {"type": "join", "fields": {"joinType": "cross"}}}}`, nil)

	err := a.Run(context.Background())

	assert.ErrorContains(t, err, "cross")
}

func TestApp_RunSurfacesCycles(t *testing.T) {
	a, _, _ := setupApp(t, `{"nodes": {
  "a": {"type": "sort-by", "ports": {"in": {"rows": [{"node": "b", "port": "rows"}]}}},
  "b": {"type": "sort-by", "ports": {"in": {"rows": [{"node": "a", "port": "rows"}]}}}
}}`, nil)

	err := a.Run(context.Background())

	assert.ErrorContains(t, err, "cyclic dependency")
}

func TestApp_Contexts(t *testing.T) {
	// --- Arrange ---
	a, out, _ := setupApp(t, ordersGraph, nil)

	// --- Act ---
	err := a.Contexts(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	var report map[string]struct {
		Type    string `json:"type"`
		Context struct {
			Columns []string `json:"columns"`
		} `json:"context"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "grid-view", report["grid"].Type)
	assert.Equal(t, []string{"id", "region", "total"}, report["grid"].Context.Columns)
	assert.Empty(t, report["orders"].Context.Columns)
}
