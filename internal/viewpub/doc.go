// Package viewpub carries rendered views out of the dataflow network to
// whatever displays them. Every sink implements Sink and is handed to the
// run as its chart.RenderFunc.
package viewpub
