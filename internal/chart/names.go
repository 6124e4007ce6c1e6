package chart

// Built-in node type names.
const (
	TypeDataSource = "datasource"
	TypeJoin       = "join"
	TypeGroupBy    = "group-by"
	TypeSortBy     = "sort-by"
	TypeFilter     = "filter"
	TypeGridView   = "grid-view"
	TypeGridColumn = "grid-column"
	TypeAxis       = "chart-axis"
	TypeGradient   = "gradient"
)
