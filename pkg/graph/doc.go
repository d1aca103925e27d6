// Package graph defines the node-graph document model of the shader composer.
//
// A [Graph] holds node instances, the connections between them and an
// optional automation timeline. The types in this package are plain values
// that serialize to the persisted document format (see package document).
//
// # Immutability
//
// Graphs are treated as immutable values. Every mutator in this package and
// in the automation and validate packages returns a new *Graph and leaves
// its argument, and everything reachable from it, untouched:
//
//	next := graph.AddNode(g, graph.Node{ID: "n3", Type: "blur"})
//	// g is unchanged; next shares g's unchanged slices
//
// A mutator that has nothing to do returns the pointer it was given, so
// callers detect no-ops with ==:
//
//	if graph.RemoveNode(g, "missing") == g {
//	    // nothing removed
//	}
//
// Callers must not modify a graph returned by this package in place; use the
// mutators or [Clone] first.
//
// # Connections
//
// A [Connection] targets exactly one of an input port (TargetPort) or a
// parameter (TargetParameter). An empty string means the selector is absent.
// Validation of this and the other graph invariants lives in package validate.
//
// # Identifiers
//
// [GenerateNodeID], [GenerateConnectionID] and friends produce random ids and
// accept a set of ids that must be avoided.
package graph
