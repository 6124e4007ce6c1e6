package viewpub

import (
	"io"
	"sort"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/vk/flowgridgo/internal/chart"
)

// EventRenderView is the event name used on the wire.
const EventRenderView = "render_view"

// Sink receives rendered views.
type Sink interface {
	Render(viewID string, view chart.View)
}

// Message is the wire form of one rendered view.
type Message struct {
	View    string         `json:"view"`
	Type    chart.ViewType `json:"type"`
	Columns []chart.Column `json:"columns"`
	Data    []chart.Row    `json:"data"`
}

// NewMessage builds the wire form of a view.
func NewMessage(viewID string, view chart.View) Message {
	columns := view.Columns
	if columns == nil {
		columns = []chart.Column{}
	}
	data := view.Data
	if data == nil {
		data = []chart.Row{}
	}
	return Message{View: viewID, Type: view.Type, Columns: columns, Data: data}
}

// RenderFunc adapts sinks into the callback a run expects. Every sink
// receives every view, in order.
func RenderFunc(sinks ...Sink) chart.RenderFunc {
	return func(viewID string, view chart.View) {
		for _, s := range sinks {
			s.Render(viewID, view)
		}
	}
}

// Collector keeps the latest view rendered under each id.
type Collector struct {
	mu    sync.Mutex
	views map[string]chart.View
	count int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{views: make(map[string]chart.View)}
}

// Render implements Sink.
func (c *Collector) Render(viewID string, view chart.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[viewID] = view
	c.count++
}

// View returns the latest view rendered under id.
func (c *Collector) View(id string) (chart.View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[id]
	return v, ok
}

// IDs returns the ids of every rendered view, sorted.
func (c *Collector) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.views))
	for id := range c.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Renders returns how many views were rendered in total.
func (c *Collector) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// JSONWriter writes every rendered view as one JSON line.
type JSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
	err error
}

// NewJSONWriter writes JSON lines to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

// Render implements Sink. The first write error is kept and later renders
// are dropped.
func (w *JSONWriter) Render(viewID string, view chart.View) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	w.err = w.enc.Encode(NewMessage(viewID, view))
}

// Err returns the first write error.
func (w *JSONWriter) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
