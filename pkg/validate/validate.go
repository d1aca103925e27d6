package validate

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/shadercomposer/nodegraph/pkg/errors"
	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
	"github.com/shadercomposer/nodegraph/pkg/params"
)

// endTolerance absorbs float rounding when a region ends exactly at the
// timeline end.
const endTolerance = 1e-9

// Result is the outcome of [ValidateGraph]. Valid is true exactly when
// Errors is empty.
type Result struct {
	Valid    bool
	Errors   []*errors.Error
	Warnings []*errors.Error
}

// ValidateGraph checks g against catalog. Checks run in a fixed order so the
// same inputs always yield the same issues in the same order:
// top-level fields, node ids, node types and parameters, connections,
// duplicate connections, then automation.
func ValidateGraph(g *graph.Graph, catalog *nodespec.Catalog) Result {
	v := &validator{catalog: catalog}
	v.check(g)
	return Result{
		Valid:    len(v.errs) == 0,
		Errors:   v.errs,
		Warnings: v.warns,
	}
}

type validator struct {
	catalog *nodespec.Catalog
	errs    []*errors.Error
	warns   []*errors.Error
}

func (v *validator) errorf(code errors.Code, format string, args ...any) {
	v.errs = append(v.errs, errors.New(code, format, args...))
}

func (v *validator) warnf(code errors.Code, format string, args ...any) {
	v.warns = append(v.warns, errors.New(code, format, args...))
}

func (v *validator) check(g *graph.Graph) {
	if g == nil {
		v.errorf(errors.ErrCodeInvalidGraph, "Graph is missing")
		return
	}
	if g.ID == "" {
		v.errorf(errors.ErrCodeInvalidGraph, "Graph is missing required field \"id\"")
	}

	v.checkNodeIDs(g)
	for i := range g.Nodes {
		v.checkNode(&g.Nodes[i])
	}
	v.checkConnections(g)
	v.checkDuplicateConnections(g)
	if g.Automation != nil {
		v.checkAutomation(g)
	}
}

// =============================================================================
// Nodes
// =============================================================================

func (v *validator) checkNodeIDs(g *graph.Graph) {
	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			v.errorf(errors.ErrCodeInvalidGraph, "Node at index %d is missing an id", i)
			continue
		}
		if seen[n.ID] {
			v.errorf(errors.ErrCodeDuplicateID, "Duplicate node ID %q", n.ID)
			continue
		}
		seen[n.ID] = true
	}
}

func (v *validator) checkNode(n *graph.Node) {
	spec, ok := v.catalog.Lookup(n.Type)
	if !ok {
		v.errorf(errors.ErrCodeUnknownNodeType, "Node %q has unknown type %q", n.ID, n.Type)
		return
	}
	for _, name := range spec.ParameterNames() {
		raw, present := n.Parameters[name]
		if !present || raw == nil {
			continue
		}
		p := spec.Parameters[name]
		value, err := params.CoerceParameterValue(raw, p.Type)
		if err != nil {
			v.errorf(errors.ErrCodeInvalidParameter,
				"Node %q parameter %q has invalid parameter value type: expected %s", n.ID, name, p.Type)
			continue
		}
		if !params.InRange(value, p) {
			v.errorf(errors.ErrCodeOutOfRange,
				"Node %q parameter %q value %v is out of range %s", n.ID, name, value, formatRange(p))
		}
	}
}

func formatRange(p nodespec.ParameterSpec) string {
	lo, hi := "-inf", "+inf"
	if p.Min != nil {
		lo = strconv.FormatFloat(*p.Min, 'g', -1, 64)
	}
	if p.Max != nil {
		hi = strconv.FormatFloat(*p.Max, 'g', -1, 64)
	}
	return "[" + lo + ", " + hi + "]"
}

// =============================================================================
// Connections
// =============================================================================

func (v *validator) checkConnections(g *graph.Graph) {
	seen := make(map[string]bool, len(g.Connections))
	for _, c := range g.Connections {
		switch {
		case c.ID == "":
			v.errorf(errors.ErrCodeInvalidConnection, "Connection from %q to %q is missing an id", c.SourceNodeID, c.TargetNodeID)
		case seen[c.ID]:
			v.errorf(errors.ErrCodeDuplicateID, "Duplicate connection ID %q", c.ID)
		default:
			seen[c.ID] = true
		}
		v.errs = append(v.errs, connectionIssues(g, c, v.catalog)...)
	}
}

// connectionIssues reports endpoint, selector and declaration problems of c
// in g. It is shared by graph validation and guarded insertion.
func connectionIssues(g *graph.Graph, c graph.Connection, catalog *nodespec.Catalog) []*errors.Error {
	var issues []*errors.Error
	if issue := selectorIssue(c); issue != nil {
		issues = append(issues, issue)
	}

	if _, ok := g.FindNode(c.SourceNodeID); !ok && !c.FromSignal() {
		issues = append(issues, errors.New(errors.ErrCodeInvalidConnection,
			"Connection %q references non-existent source node %q", c.ID, c.SourceNodeID))
	}
	target, ok := g.FindNode(c.TargetNodeID)
	if !ok {
		issues = append(issues, errors.New(errors.ErrCodeInvalidConnection,
			"Connection %q references non-existent target node %q", c.ID, c.TargetNodeID))
		return issues
	}

	spec, ok := catalog.Lookup(target.Type)
	if !ok {
		return issues
	}
	if c.TargetsPort() {
		if _, declared := spec.Input(c.TargetPort); !declared {
			issues = append(issues, errors.New(errors.ErrCodeInvalidConnection,
				"Connection %q targets undeclared input port %q on node %q (%s)", c.ID, c.TargetPort, target.ID, spec.ID))
		}
	}
	if c.TargetsParameter() {
		if _, declared := spec.Parameter(c.TargetParameter); !declared {
			issues = append(issues, errors.New(errors.ErrCodeInvalidConnection,
				"Connection %q targets undeclared parameter %q on node %q (%s)", c.ID, c.TargetParameter, target.ID, spec.ID))
		}
	}
	return issues
}

func selectorIssue(c graph.Connection) *errors.Error {
	switch {
	case c.TargetsPort() && c.TargetsParameter():
		return errors.New(errors.ErrCodeInvalidConnection,
			"Connection %q must set exactly one of targetPort or targetParameter, not both", c.ID)
	case !c.TargetsPort() && !c.TargetsParameter():
		return errors.New(errors.ErrCodeInvalidConnection,
			"Connection %q is missing target: set exactly one of targetPort or targetParameter", c.ID)
	}
	return nil
}

func (v *validator) checkDuplicateConnections(g *graph.Graph) {
	for i, c := range g.Connections {
		if check := ValidateNoDuplicateConnections(c, g.Connections[:i]); !check.Valid {
			v.errs = append(v.errs, check.Error)
		}
	}
}

// =============================================================================
// Automation
// =============================================================================

func (v *validator) checkAutomation(g *graph.Graph) {
	a := g.Automation
	if math.IsNaN(a.BPM) || a.BPM < graph.MinBPM || a.BPM > graph.MaxBPM {
		v.errorf(errors.ErrCodeInvalidAutomation, "Automation bpm %v is out of range [%v, %v]", a.BPM, graph.MinBPM, graph.MaxBPM)
	}
	if math.IsNaN(a.DurationSeconds) || math.IsInf(a.DurationSeconds, 0) || a.DurationSeconds < graph.MinDurationSeconds {
		v.errorf(errors.ErrCodeInvalidAutomation, "Automation durationSeconds %v must be at least %v", a.DurationSeconds, graph.MinDurationSeconds)
	}

	seen := make(map[string]bool, len(a.Lanes))
	for i := range a.Lanes {
		lane := &a.Lanes[i]
		if seen[lane.ID] {
			v.errorf(errors.ErrCodeDuplicateID, "Duplicate automation lane ID %q", lane.ID)
		}
		seen[lane.ID] = true
		v.checkLaneTarget(g, lane)
		v.checkRegions(lane, a.DurationSeconds)
	}
}

func (v *validator) checkLaneTarget(g *graph.Graph, lane *graph.Lane) {
	node, ok := g.FindNode(lane.NodeID)
	if !ok {
		v.errorf(errors.ErrCodeInvalidAutomation, "Automation lane %q references non-existent node %q", lane.ID, lane.NodeID)
		return
	}
	spec, ok := v.catalog.Lookup(node.Type)
	if !ok {
		return
	}
	p, ok := spec.Parameter(lane.ParamName)
	if !ok {
		v.errorf(errors.ErrCodeInvalidAutomation,
			"Automation lane %q references unknown parameter %q on node %q (%s)", lane.ID, lane.ParamName, node.ID, spec.ID)
		return
	}
	switch p.Type {
	case nodespec.TypeFloat:
	case nodespec.TypeInt:
		v.warnf(errors.ErrCodeAutomationType,
			"Automation lane %q targets parameter %q of type int; automation evaluates float values, so results are rounded", lane.ID, lane.ParamName)
	default:
		v.errorf(errors.ErrCodeInvalidAutomation,
			"Automation lane %q targets parameter %q of type %s; only float parameters can be automated", lane.ID, lane.ParamName, p.Type)
	}
}

func (v *validator) checkRegions(lane *graph.Lane, duration float64) {
	ids := make(map[string]bool, len(lane.Regions))
	for _, r := range lane.Regions {
		if ids[r.ID] {
			v.errorf(errors.ErrCodeDuplicateID, "Duplicate region ID %q in automation lane %q", r.ID, lane.ID)
		}
		ids[r.ID] = true

		switch {
		case !(r.Duration > 0):
			v.errorf(errors.ErrCodeInvalidAutomation, "Region %q in lane %q has non-positive duration %v", r.ID, lane.ID, r.Duration)
		case r.StartTime < 0 || r.StartTime >= duration:
			v.errorf(errors.ErrCodeInvalidAutomation, "Region %q in lane %q starts at %v, outside [0, %v)", r.ID, lane.ID, r.StartTime, duration)
		case r.End() > duration+endTolerance:
			v.errorf(errors.ErrCodeInvalidAutomation, "Region %q in lane %q ends at %v, past the timeline end %v", r.ID, lane.ID, r.End(), duration)
		}
		v.checkCurve(lane, r)
	}

	sorted := slices.Clone(lane.Regions)
	slices.SortStableFunc(sorted, func(a, b graph.Region) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		}
		return 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			v.errorf(errors.ErrCodeInvalidAutomation, "Regions %q and %q in lane %q overlap", sorted[i-1].ID, sorted[i].ID, lane.ID)
		}
	}
}

func (v *validator) checkCurve(lane *graph.Lane, r graph.Region) {
	if !r.Curve.Interpolation.Valid() {
		v.errorf(errors.ErrCodeInvalidAutomation, "Region %q in lane %q has unknown interpolation %q", r.ID, lane.ID, r.Curve.Interpolation)
	}
	for i, k := range r.Curve.Keyframes {
		if !unit(k.Time) || !unit(k.Value) {
			v.errorf(errors.ErrCodeInvalidAutomation,
				"Region %q in lane %q keyframe %d (%v, %v) is outside [0, 1]", r.ID, lane.ID, i, k.Time, k.Value)
		}
	}
}

func unit(x float64) bool { return x >= 0 && x <= 1 }

// =============================================================================
// Helpers
// =============================================================================

func describeTarget(c graph.Connection) string {
	if c.TargetsPort() {
		return fmt.Sprintf("input port %q", c.TargetPort)
	}
	return fmt.Sprintf("parameter %q", c.TargetParameter)
}
