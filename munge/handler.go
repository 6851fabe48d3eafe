package munge

import "github.com/geoknoesis/rdf-munge/rdf"

// FormatHandler rewrites statements of one dump format version.
// It runs once per statement that survived the core rules and returns the
// replacement, or false to delete the statement.
type FormatHandler interface {
	Handle(rdf.Triple) (rdf.Triple, bool)
}

// FormatHandlerFunc adapts a function to FormatHandler.
type FormatHandlerFunc func(rdf.Triple) (rdf.Triple, bool)

// Handle calls f(t).
func (f FormatHandlerFunc) Handle(t rdf.Triple) (rdf.Triple, bool) {
	return f(t)
}
