package processor

import "errors"

var (
	// ErrUnknownPort is returned when wiring names a port the processor does not declare.
	ErrUnknownPort = errors.New("unknown port")
	// ErrStopped is returned when a stopped processor is asked to emit.
	ErrStopped = errors.New("processor stopped")
)

// Callback receives one value pushed on an output port.
type Callback func(value any) error

// Processor is the live, stateful runtime unit of one node.
type Processor interface {
	// Type returns the node type tag, for diagnostics.
	Type() string
	// RegisterProcessor wires input port inPort to output port outPort of
	// upstream. It may be called several times for the same input port.
	RegisterProcessor(inPort, outPort string, upstream Processor) error
	// Subscribe registers a downstream callback on one output port.
	Subscribe(outPort string, cb Callback) error
}

// Starter is implemented by processors that push a value when the network starts.
type Starter interface {
	OnStart() error
}

// Stopper is implemented by processors that release resources when the network stops.
type Stopper interface {
	OnStop()
}

// Pusher is implemented by source processors that accept external values.
type Pusher interface {
	Push(value any) error
}
