package graph

import (
	"maps"
	"slices"
)

// New creates an empty graph. An empty id is replaced by a generated one.
func New(id, name string) *Graph {
	if id == "" {
		id = GenerateGraphID(nil)
	}
	return &Graph{
		ID:          id,
		Name:        name,
		Version:     DefaultGraphVersion,
		Nodes:       []Node{},
		Connections: []Connection{},
	}
}

// =============================================================================
// Lookups
// =============================================================================

// FindNode returns the node with the given id.
// The returned pointer refers into g and must be treated as read-only.
func (g *Graph) FindNode(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// FindConnection returns the connection with the given id.
// The returned pointer refers into g and must be treated as read-only.
func (g *Graph) FindConnection(id string) (*Connection, bool) {
	if g == nil {
		return nil, false
	}
	for i := range g.Connections {
		if g.Connections[i].ID == id {
			return &g.Connections[i], true
		}
	}
	return nil, false
}

// ConnectionsFromNode returns the connections whose source is nodeID, in
// stored order.
func (g *Graph) ConnectionsFromNode(nodeID string) []Connection {
	return g.filterConnections(func(c Connection) bool { return c.SourceNodeID == nodeID })
}

// ConnectionsToNode returns the connections whose target is nodeID, in
// stored order.
func (g *Graph) ConnectionsToNode(nodeID string) []Connection {
	return g.filterConnections(func(c Connection) bool { return c.TargetNodeID == nodeID })
}

func (g *Graph) filterConnections(keep func(Connection) bool) []Connection {
	if g == nil {
		return nil
	}
	var out []Connection
	for _, c := range g.Connections {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// FindLane returns the automation lane with the given id.
func (g *Graph) FindLane(id string) (*Lane, bool) {
	if g == nil || g.Automation == nil {
		return nil, false
	}
	for i := range g.Automation.Lanes {
		if g.Automation.Lanes[i].ID == id {
			return &g.Automation.Lanes[i], true
		}
	}
	return nil, false
}

// LaneFor returns the first lane automating paramName on nodeID.
func (g *Graph) LaneFor(nodeID, paramName string) (*Lane, bool) {
	if g == nil || g.Automation == nil {
		return nil, false
	}
	for i := range g.Automation.Lanes {
		l := &g.Automation.Lanes[i]
		if l.NodeID == nodeID && l.ParamName == paramName {
			return l, true
		}
	}
	return nil, false
}

// NodeIDs returns the set of node ids in g.
func (g *Graph) NodeIDs() map[string]struct{} {
	if g == nil {
		return nil
	}
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}

// ConnectionIDs returns the set of connection ids in g.
func (g *Graph) ConnectionIDs() map[string]struct{} {
	if g == nil {
		return nil
	}
	ids := make(map[string]struct{}, len(g.Connections))
	for _, c := range g.Connections {
		ids[c.ID] = struct{}{}
	}
	return ids
}

// Stats summarizes the size of a graph.
type Stats struct {
	Nodes       int
	Connections int
	Lanes       int
	Regions     int
}

// Stats counts the entities in g.
func (g *Graph) Stats() Stats {
	if g == nil {
		return Stats{}
	}
	s := Stats{Nodes: len(g.Nodes), Connections: len(g.Connections)}
	if g.Automation != nil {
		s.Lanes = len(g.Automation.Lanes)
		for _, l := range g.Automation.Lanes {
			s.Regions += len(l.Regions)
		}
	}
	return s
}

// =============================================================================
// Mutators
// =============================================================================

// AddNode returns a graph with n appended. A nil parameter map is replaced
// by an empty one. AddNode does not check ids; run validation for that.
func AddNode(g *Graph, n Node) *Graph {
	if n.Parameters == nil {
		n.Parameters = map[string]any{}
	}
	next := *g
	next.Nodes = append(slices.Clip(g.Nodes), n)
	return &next
}

// RemoveNode returns a graph without the node, its connections and its
// automation lanes. Returns g if no node has the id.
func RemoveNode(g *Graph, id string) *Graph {
	if _, ok := g.FindNode(id); !ok {
		return g
	}
	next := *g
	next.Nodes = slices.DeleteFunc(slices.Clone(g.Nodes), func(n Node) bool { return n.ID == id })
	next.Connections = slices.DeleteFunc(slices.Clone(g.Connections), func(c Connection) bool {
		return c.SourceNodeID == id || c.TargetNodeID == id
	})
	if g.Automation != nil {
		a := *g.Automation
		a.Lanes = slices.DeleteFunc(slices.Clone(a.Lanes), func(l Lane) bool { return l.NodeID == id })
		next.Automation = &a
	}
	return &next
}

// UpdateNodeParameter returns a graph where node id stores value for name.
// Returns g if the node does not exist.
func UpdateNodeParameter(g *Graph, id, name string, value any) *Graph {
	return updateNode(g, id, func(n *Node) {
		params := make(map[string]any, len(n.Parameters)+1)
		maps.Copy(params, n.Parameters)
		params[name] = value
		n.Parameters = params
	})
}

// MoveNode returns a graph with the node at pos. Returns g if the node does
// not exist.
func MoveNode(g *Graph, id string, pos Position) *Graph {
	return updateNode(g, id, func(n *Node) { n.Position = pos })
}

// SetNodeLabel returns a graph with the node's label replaced. Returns g if
// the node does not exist.
func SetNodeLabel(g *Graph, id, label string) *Graph {
	return updateNode(g, id, func(n *Node) { n.Label = label })
}

func updateNode(g *Graph, id string, fn func(*Node)) *Graph {
	idx := slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
	if idx < 0 {
		return g
	}
	next := *g
	next.Nodes = slices.Clone(g.Nodes)
	fn(&next.Nodes[idx])
	return &next
}

// AddConnection returns a graph with c appended. No validation is done; use
// validate.AddConnectionWithValidation to enforce connection invariants.
func AddConnection(g *Graph, c Connection) *Graph {
	next := *g
	next.Connections = append(slices.Clip(g.Connections), c)
	return &next
}

// RemoveConnection returns a graph without the connection. Returns g if no
// connection has the id.
func RemoveConnection(g *Graph, id string) *Graph {
	if _, ok := g.FindConnection(id); !ok {
		return g
	}
	next := *g
	next.Connections = slices.DeleteFunc(slices.Clone(g.Connections), func(c Connection) bool { return c.ID == id })
	return &next
}

// WithAutomation returns a shallow copy of g carrying a.
func WithAutomation(g *Graph, a *AutomationState) *Graph {
	next := *g
	next.Automation = a
	return &next
}

// =============================================================================
// Cloning
// =============================================================================

// Clone returns a deep copy of g that shares no mutable state with it.
func Clone(g *Graph) *Graph {
	if g == nil {
		return nil
	}
	out := *g
	if g.Nodes != nil {
		out.Nodes = make([]Node, len(g.Nodes))
		for i, n := range g.Nodes {
			out.Nodes[i] = cloneNode(n)
		}
	}
	out.Connections = slices.Clone(g.Connections)
	if g.Automation != nil {
		a := *g.Automation
		if a.Lanes != nil {
			a.Lanes = make([]Lane, len(g.Automation.Lanes))
			for i, l := range g.Automation.Lanes {
				a.Lanes[i] = CloneLane(l)
			}
		}
		out.Automation = &a
	}
	return &out
}

// CloneLane returns a deep copy of l.
func CloneLane(l Lane) Lane {
	if l.Regions != nil {
		regions := make([]Region, len(l.Regions))
		for i, r := range l.Regions {
			r.Curve.Keyframes = slices.Clone(r.Curve.Keyframes)
			regions[i] = r
		}
		l.Regions = regions
	}
	return l
}

func cloneNode(n Node) Node {
	if n.Parameters != nil {
		params := make(map[string]any, len(n.Parameters))
		for k, v := range n.Parameters {
			params[k] = cloneValue(v)
		}
		n.Parameters = params
	}
	n.ParameterInputModes = maps.Clone(n.ParameterInputModes)
	return n
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	case []float64:
		return slices.Clone(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
