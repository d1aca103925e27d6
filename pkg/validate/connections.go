package validate

import (
	"slices"

	"github.com/shadercomposer/nodegraph/pkg/errors"
	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
)

// DuplicateCheck is the outcome of [ValidateNoDuplicateConnections].
// ConflictID names the existing connection that occupies the target.
type DuplicateCheck struct {
	Valid      bool
	Error      *errors.Error
	ConflictID string
}

// ValidateNoDuplicateConnections reports whether candidate targets a port or
// parameter already occupied by a connection in existing. Two connections
// conflict when they share a target node and name the same non-empty
// targetPort or the same non-empty targetParameter. An entry with the
// candidate's own id is skipped, so a connection can be checked against a
// table that contains it.
func ValidateNoDuplicateConnections(candidate graph.Connection, existing []graph.Connection) DuplicateCheck {
	idx := findConflict(candidate, existing)
	if idx < 0 {
		return DuplicateCheck{Valid: true}
	}
	c := existing[idx]
	return DuplicateCheck{
		Error: errors.New(errors.ErrCodeDuplicateConn,
			"Duplicate connection: %s on node %q is already connected by %q",
			describeTarget(candidate), candidate.TargetNodeID, c.ID),
		ConflictID: c.ID,
	}
}

// findConflict returns the index of the first connection in existing that
// occupies candidate's target, or -1.
func findConflict(candidate graph.Connection, existing []graph.Connection) int {
	return slices.IndexFunc(existing, func(c graph.Connection) bool {
		if candidate.ID != "" && c.ID == candidate.ID {
			return false
		}
		return conflicts(candidate, c)
	})
}

func conflicts(a, b graph.Connection) bool {
	if a.TargetNodeID != b.TargetNodeID {
		return false
	}
	if a.TargetPort != "" && a.TargetPort == b.TargetPort {
		return true
	}
	return a.TargetParameter != "" && a.TargetParameter == b.TargetParameter
}

// AddResult is the outcome of [AddConnectionWithValidation]. On rejection
// Graph is the input graph and Errors is non-empty. ReplacedConnectionID is
// set when the new connection took the place of an existing one.
type AddResult struct {
	Graph                *graph.Graph
	Errors               []*errors.Error
	ReplacedConnectionID string
}

// AddConnectionWithValidation inserts conn into g.
//
// The connection is rejected when its target selector is not exactly one of
// targetPort or targetParameter, when an endpoint node does not exist, when
// the target spec does not declare the port or parameter, or when its id is
// already used. A connection already occupying the same target is replaced
// at the same position, so the connection count does not change. An empty id
// is filled with a generated one.
func AddConnectionWithValidation(g *graph.Graph, conn graph.Connection, catalog *nodespec.Catalog) AddResult {
	if g == nil {
		return AddResult{Errors: []*errors.Error{errors.New(errors.ErrCodeInvalidGraph, "Graph is missing")}}
	}
	if issue := selectorIssue(conn); issue != nil {
		return AddResult{Graph: g, Errors: []*errors.Error{issue}}
	}
	if issues := connectionIssues(g, conn, catalog); len(issues) > 0 {
		return AddResult{Graph: g, Errors: issues}
	}

	if conn.ID == "" {
		conn.ID = graph.GenerateConnectionID(g.ConnectionIDs())
	} else if _, taken := g.FindConnection(conn.ID); taken {
		return AddResult{Graph: g, Errors: []*errors.Error{
			errors.New(errors.ErrCodeDuplicateID, "Duplicate connection ID %q", conn.ID),
		}}
	}

	idx := findConflict(conn, g.Connections)
	if idx < 0 {
		return AddResult{Graph: graph.AddConnection(g, conn)}
	}

	replaced := g.Connections[idx].ID
	next := *g
	next.Connections = slices.Clone(g.Connections)
	next.Connections[idx] = conn
	return AddResult{Graph: &next, ReplacedConnectionID: replaced}
}
