package processor

import "fmt"

// Outputs owns the subscriber lists of a processor's output ports.
type Outputs struct {
	subs    map[string][]Callback
	stopped bool
}

// NewOutputs declares the output ports a processor can emit on.
func NewOutputs(ports ...string) Outputs {
	subs := make(map[string][]Callback, len(ports))
	for _, p := range ports {
		subs[p] = nil
	}
	return Outputs{subs: subs}
}

// Subscribe appends cb to the subscribers of port.
func (o *Outputs) Subscribe(port string, cb Callback) error {
	if o.stopped {
		return ErrStopped
	}
	subs, ok := o.subs[port]
	if !ok {
		return fmt.Errorf("subscribe to output '%s': %w", port, ErrUnknownPort)
	}
	o.subs[port] = append(subs, cb)
	return nil
}

// HasSubscribers reports whether anything listens on port. Processors use it
// to skip recomputing results nobody will receive.
func (o *Outputs) HasSubscribers(port string) bool {
	return len(o.subs[port]) > 0
}

// Emit pushes value to every subscriber of port, in registration order.
// The first error stops the fan-out and is returned.
func (o *Outputs) Emit(port string, value any) error {
	if o.stopped {
		return ErrStopped
	}
	subs, ok := o.subs[port]
	if !ok {
		return fmt.Errorf("emit on output '%s': %w", port, ErrUnknownPort)
	}
	for _, cb := range subs {
		if err := cb(value); err != nil {
			return err
		}
	}
	return nil
}

// Close drops every subscriber; later emits fail with ErrStopped.
func (o *Outputs) Close() {
	for port := range o.subs {
		o.subs[port] = nil
	}
	o.stopped = true
}

// Base carries what every processor shares: a type tag and its output ports.
type Base struct {
	Outputs
	typ string
}

// NewBase creates a Base for a node type with the given output ports.
func NewBase(typ string, outPorts ...string) Base {
	return Base{Outputs: NewOutputs(outPorts...), typ: typ}
}

// Type implements Processor.
func (b *Base) Type() string {
	return b.typ
}

// OnStop implements Stopper.
func (b *Base) OnStop() {
	b.Outputs.Close()
}
