package app

import (
	"github.com/vk/flowgridgo/internal/chart"
	"github.com/vk/flowgridgo/modules/axis"
	"github.com/vk/flowgridgo/modules/datasource"
	"github.com/vk/flowgridgo/modules/filter"
	"github.com/vk/flowgridgo/modules/gradient"
	"github.com/vk/flowgridgo/modules/gridcolumn"
	"github.com/vk/flowgridgo/modules/gridview"
	"github.com/vk/flowgridgo/modules/groupby"
	"github.com/vk/flowgridgo/modules/join"
	"github.com/vk/flowgridgo/modules/sortby"
)

// coreModules is the definitive list of all node types compiled into the
// flowgrid binary.
var coreModules = []chart.Module{
	&datasource.Module{},
	&join.Module{},
	&groupby.Module{},
	&sortby.Module{},
	&filter.Module{},
	&gridview.Module{},
	&gridcolumn.Module{},
	&axis.Module{},
	&gradient.Module{},
}
