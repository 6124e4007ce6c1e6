// Package engine ties the runtime together for one graph run: structural
// validation, context resolution, formula reference checks, network build
// and start. A graph edit is applied with Rebuild, which tears the previous
// network down before starting a fresh one.
package engine
