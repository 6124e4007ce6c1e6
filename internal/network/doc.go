// Package network instantiates a graph into a running set of processors.
//
// Build creates one processor per node, in sorted node-id order, using each
// node's resolved context and the run params, then wires every input port to
// its upstream targets. Any construction or wiring failure aborts the build
// and tears down what was created. Start invokes OnStart in the same order;
// Stop invokes OnStop in reverse. A network is built for one run and is
// discarded on teardown; editing the graph means building a new one.
package network
