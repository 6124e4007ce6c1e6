// Package loader reads graph definitions from files.
//
// Three formats are accepted, chosen by file extension:
//
//   - JSON (.json) and YAML (.yaml, .yml) files hold the graph value
//     directly: a "nodes" object keyed by node id.
//   - HCL (.hcl) files declare one "node" block per node. A directory is
//     walked and every .hcl file found is merged into one graph.
//
// An HCL node looks like:
//
//	node "orders" {
//	  type   = "datasource"
//	  fields = {
//	    data = [{ id = 1, total = 30 }]
//	  }
//	}
//
//	node "by_total" {
//	  type   = "sort-by"
//	  fields = { column = "total", desc = true }
//	  input "rows" {
//	    from = ["orders.rows"]
//	  }
//	}
package loader
