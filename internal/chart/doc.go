// Package chart is the node family the built-in modules share: the context
// flowing between nodes (the columns visible downstream), the run params
// (variables and the view callback), the row representation and the view
// payloads sinks render.
package chart
