package network

import "fmt"

// ProcessorConstructionError reports a node whose processor could not be built.
type ProcessorConstructionError struct {
	NodeID string
	Type   string
	Err    error
}

func (e *ProcessorConstructionError) Error() string {
	return fmt.Sprintf("constructing processor for node '%s' (type '%s'): %v", e.NodeID, e.Type, e.Err)
}

func (e *ProcessorConstructionError) Unwrap() error { return e.Err }

// WiringError reports an edge the runtime could not connect.
type WiringError struct {
	NodeID string
	Port   string
	From   string
	Err    error
}

func (e *WiringError) Error() string {
	return fmt.Sprintf("wiring input '%s' of node '%s' from '%s': %v", e.Port, e.NodeID, e.From, e.Err)
}

func (e *WiringError) Unwrap() error { return e.Err }

// PropagationError reports a failure raised while a node pushed values.
type PropagationError struct {
	NodeID string
	Err    error
}

func (e *PropagationError) Error() string {
	return fmt.Sprintf("propagating from node '%s': %v", e.NodeID, e.Err)
}

func (e *PropagationError) Unwrap() error { return e.Err }
