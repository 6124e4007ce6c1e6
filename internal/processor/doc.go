// Package processor defines the contract every live node implements and the
// small building blocks node types assemble their processors from.
//
// # Contract
//
// A Processor is created once per node for one run of the network. The
// runtime wires it by calling RegisterProcessor once per upstream target of
// each input port; the processor subscribes itself to the upstream output
// port it was handed. Downstream processors in turn call Subscribe on it.
//
// Propagation is synchronous and depth-first. Emit invokes every subscriber
// of a port in registration order and returns the first error, so a single
// push fully drains through every reachable sink before it returns, and an
// error raised anywhere downstream unwinds back to the original pusher.
//
// Optional lifecycle hooks are discovered with type assertions: Starter for
// processors that push a first value, Stopper for cleanup.
//
// # Building Blocks
//
//   - Outputs is the per-processor port bus: an ordered subscriber list per
//     declared output port.
//   - Base embeds Outputs with a type tag and a default OnStop.
//   - Adapter routes raw input for processors that only want a single
//     Process(port, values) entry point with one slot per fan-in target.
//   - Source is a zero-input processor that emits one value on start and
//     re-emits on every Push.
package processor
