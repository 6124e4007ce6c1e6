package processor

import "fmt"

// Source is a zero-input processor. It emits its value on start and again on
// every Push.
type Source struct {
	Base
	port  string
	value any
}

// NewSource creates a source emitting value on port.
func NewSource(typ, port string, value any) *Source {
	return &Source{Base: NewBase(typ, port), port: port, value: value}
}

// RegisterProcessor implements Processor. Sources have no inputs.
func (s *Source) RegisterProcessor(inPort, _ string, _ Processor) error {
	return fmt.Errorf("register input '%s' on %s: %w", inPort, s.Type(), ErrUnknownPort)
}

// OnStart implements Starter.
func (s *Source) OnStart() error {
	return s.Emit(s.port, s.value)
}

// Push implements Pusher: it replaces the value and emits it.
func (s *Source) Push(value any) error {
	s.value = value
	return s.Emit(s.port, value)
}

// Value returns the last value emitted or configured.
func (s *Source) Value() any {
	return s.value
}
