package processor

import "fmt"

// PortHandler is the single entry point of an adapted processor. values
// holds the latest value of every fan-in target wired into port, in wiring
// order.
type PortHandler interface {
	Process(port string, values []any) error
}

// input tracks one slot per upstream target of an input port.
type input struct {
	values []any
	filled []bool
}

func (in *input) ready() bool {
	if len(in.values) == 0 {
		return false
	}
	for _, f := range in.filled {
		if !f {
			return false
		}
	}
	return true
}

// Adapter turns a PortHandler into a Processor. Process is called for a port
// only once every target wired into that port has fired at least once; the
// handler decides whether the other ports are ready.
type Adapter struct {
	Base
	handler PortHandler
	inputs  map[string]*input
}

// NewAdapter creates an adapter with the given input and output ports.
// Attach the handler with SetHandler before wiring.
func NewAdapter(typ string, inPorts, outPorts []string) *Adapter {
	inputs := make(map[string]*input, len(inPorts))
	for _, p := range inPorts {
		inputs[p] = &input{}
	}
	return &Adapter{
		Base:   NewBase(typ, outPorts...),
		inputs: inputs,
	}
}

// SetHandler attaches the handler that receives routed input.
func (a *Adapter) SetHandler(h PortHandler) {
	a.handler = h
}

// RegisterProcessor implements Processor.
func (a *Adapter) RegisterProcessor(inPort, outPort string, upstream Processor) error {
	in, ok := a.inputs[inPort]
	if !ok {
		return fmt.Errorf("register input '%s' on %s: %w", inPort, a.Type(), ErrUnknownPort)
	}
	slot := len(in.values)
	in.values = append(in.values, nil)
	in.filled = append(in.filled, false)

	return upstream.Subscribe(outPort, func(value any) error {
		in.values[slot] = value
		in.filled[slot] = true
		if !in.ready() || a.handler == nil {
			return nil
		}
		values := make([]any, len(in.values))
		copy(values, in.values)
		return a.handler.Process(inPort, values)
	})
}

// Wired reports how many upstream targets are wired into port.
func (a *Adapter) Wired(port string) int {
	in, ok := a.inputs[port]
	if !ok {
		return 0
	}
	return len(in.values)
}

// Ready reports whether every target wired into port has fired.
func (a *Adapter) Ready(port string) bool {
	in, ok := a.inputs[port]
	return ok && in.ready()
}

// OnStart implements Starter by forwarding to the handler, if it starts.
func (a *Adapter) OnStart() error {
	if s, ok := a.handler.(Starter); ok {
		return s.OnStart()
	}
	return nil
}

// OnStop implements Stopper.
func (a *Adapter) OnStop() {
	if s, ok := a.handler.(Stopper); ok {
		s.OnStop()
	}
	a.Base.OnStop()
}
