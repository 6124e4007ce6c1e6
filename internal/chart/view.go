package chart

import "github.com/vk/flowgridgo/internal/expr"

// ViewType tags a rendered view payload.
type ViewType string

const ViewGrid ViewType = "grid"

// View is what a sink hands to the render callback.
type View struct {
	Type    ViewType `json:"type"`
	Columns []Column `json:"columns"`
	Data    []Row    `json:"data"`
}

// Column describes one rendered grid column.
type Column struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Width int    `json:"width,omitempty"`
}

// ColumnConfig is emitted by grid-column nodes: a header and the mapper
// computing the cell of each row.
type ColumnConfig struct {
	Name   string      `json:"name"`
	Width  int         `json:"width,omitempty"`
	Mapper expr.Mapper `json:"-"`
}

// AxisType is the scale kind of a chart axis.
type AxisType string

const (
	AxisCategory    AxisType = "category"
	AxisLinear      AxisType = "linear"
	AxisLogarithmic AxisType = "logarithmic"
	AxisTime        AxisType = "time"
)

// AxisTypes lists the accepted axis types.
var AxisTypes = []string{string(AxisCategory), string(AxisLinear), string(AxisLogarithmic), string(AxisTime)}

// AxisConfig is emitted by chart-axis nodes.
type AxisConfig struct {
	Type        AxisType       `json:"type"`
	Label       string         `json:"label,omitempty"`
	BeginAtZero bool           `json:"beginAtZero"`
	Stacked     bool           `json:"stacked"`
	Params      map[string]any `json:"params,omitempty"`
}

// Gradient is emitted by gradient nodes: evenly spaced colour samples.
type Gradient struct {
	Colors []string `json:"colors"`
}
