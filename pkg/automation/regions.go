package automation

import (
	"cmp"
	"math"
	"slices"

	"github.com/shadercomposer/nodegraph/pkg/graph"
)

// RegionUpdate lists the fields to change on a region. Nil fields are kept.
type RegionUpdate struct {
	StartTime *float64
	Duration  *float64
	Loop      *bool
	Curve     *graph.Curve
}

// DefaultCurve returns a linear ramp from 0 to 1.
func DefaultCurve() graph.Curve {
	return graph.Curve{
		Keyframes:     []graph.Keyframe{{Time: 0, Value: 0}, {Time: 1, Value: 1}},
		Interpolation: graph.InterpolationLinear,
	}
}

// AddLane returns a graph with a lane automating paramName on nodeID, and
// the lane id. If a lane for the pair exists, g and that lane's id are
// returned. A missing node yields g and an empty id. A graph without
// automation gets a default timeline.
func AddLane(g *graph.Graph, nodeID, paramName string) (*graph.Graph, string) {
	if g == nil {
		return g, ""
	}
	if l, ok := g.LaneFor(nodeID, paramName); ok {
		return g, l.ID
	}
	if _, ok := g.FindNode(nodeID); !ok {
		return g, ""
	}

	var a graph.AutomationState
	if g.Automation != nil {
		a = *g.Automation
	} else {
		a = *graph.NewAutomationState()
	}
	ids := make(map[string]struct{}, len(a.Lanes))
	for _, l := range a.Lanes {
		ids[l.ID] = struct{}{}
	}
	lane := graph.Lane{
		ID:        graph.GenerateLaneID(ids),
		NodeID:    nodeID,
		ParamName: paramName,
		Regions:   []graph.Region{},
	}
	a.Lanes = append(slices.Clip(a.Lanes), lane)
	return graph.WithAutomation(g, &a), lane.ID
}

// AddRegion returns a graph with region placed on the lane.
//
// The requested interval is packed against the lane's regions (see the
// package documentation), then its duration is clamped to end by the
// timeline end. An empty region id is filled with a generated one and an
// empty curve becomes [DefaultCurve]. Returns g
// when the lane does not exist or the region has no room left after packing.
func AddRegion(g *graph.Graph, laneID string, region graph.Region) *graph.Graph {
	return updateLane(g, laneID, func(a *graph.AutomationState, lane *graph.Lane) bool {
		if !(region.Duration > 0) || math.IsInf(region.Duration, 0) {
			return false
		}
		start := region.StartTime
		if math.IsNaN(start) || start < 0 {
			start = 0
		}

		start, dur := pack(start, region.Duration, lane.Regions)
		dur = math.Min(dur, a.DurationSeconds-start)
		if !(dur > 0) {
			return false
		}

		if region.ID == "" {
			region.ID = graph.GenerateRegionID(regionIDs(a))
		}
		region.StartTime = start
		region.Duration = dur
		if region.Curve.Interpolation == "" && len(region.Curve.Keyframes) == 0 {
			region.Curve = DefaultCurve()
		} else {
			region.Curve.Keyframes = slices.Clone(region.Curve.Keyframes)
		}

		lane.Regions = sortRegions(append(slices.Clip(lane.Regions), region))
		return true
	})
}

// UpdateRegion returns a graph with the region's fields changed.
//
// Duration is limited to the timeline length and start is clamped so the
// region stays on the timeline. The region is then pushed right past any
// other region it overlaps, in one pass, and clamped to the timeline end
// again. Returns g when the lane or region does not exist, when a duration
// update is not positive, or when no room is left.
func UpdateRegion(g *graph.Graph, laneID, regionID string, u RegionUpdate) *graph.Graph {
	return updateLane(g, laneID, func(a *graph.AutomationState, lane *graph.Lane) bool {
		idx := slices.IndexFunc(lane.Regions, func(r graph.Region) bool { return r.ID == regionID })
		if idx < 0 {
			return false
		}
		r := lane.Regions[idx]
		if u.StartTime != nil {
			r.StartTime = *u.StartTime
		}
		if u.Duration != nil {
			if !(*u.Duration > 0) {
				return false
			}
			r.Duration = *u.Duration
		}
		if u.Loop != nil {
			r.Loop = *u.Loop
		}
		if u.Curve != nil {
			r.Curve = graph.Curve{
				Keyframes:     slices.Clone(u.Curve.Keyframes),
				Interpolation: u.Curve.Interpolation,
			}
		}

		total := a.DurationSeconds
		dur := math.Min(r.Duration, total)
		start := r.StartTime
		if math.IsNaN(start) {
			start = 0
		}
		start = math.Max(0, math.Min(start, total-dur))

		for _, other := range lane.Regions {
			if other.ID == regionID {
				continue
			}
			if start < other.End() && other.StartTime < start+dur {
				start = other.End()
			}
		}
		dur = math.Min(dur, total-start)
		if !(dur > 0) {
			return false
		}
		r.StartTime = start
		r.Duration = dur

		regions := slices.Clone(lane.Regions)
		regions[idx] = r
		lane.Regions = sortRegions(regions)
		return true
	})
}

// RemoveRegion returns a graph without the region. Returns g if the lane or
// region does not exist.
func RemoveRegion(g *graph.Graph, laneID, regionID string) *graph.Graph {
	return updateLane(g, laneID, func(_ *graph.AutomationState, lane *graph.Lane) bool {
		if !slices.ContainsFunc(lane.Regions, func(r graph.Region) bool { return r.ID == regionID }) {
			return false
		}
		lane.Regions = slices.DeleteFunc(slices.Clone(lane.Regions), func(r graph.Region) bool { return r.ID == regionID })
		return true
	})
}

// RemoveLane returns a graph without the lane. Returns g if the lane does
// not exist.
func RemoveLane(g *graph.Graph, laneID string) *graph.Graph {
	if _, ok := g.FindLane(laneID); !ok {
		return g
	}
	a := *g.Automation
	a.Lanes = slices.DeleteFunc(slices.Clone(a.Lanes), func(l graph.Lane) bool { return l.ID == laneID })
	return graph.WithAutomation(g, &a)
}

// RegionAt returns the region of lane that covers seconds.
func RegionAt(lane graph.Lane, seconds float64) (graph.Region, bool) {
	for _, r := range lane.Regions {
		if seconds >= r.StartTime && seconds < r.End() {
			return r, true
		}
	}
	return graph.Region{}, false
}

// pack runs the one-pass displacement of [start, start+dur) against regions.
func pack(start, dur float64, regions []graph.Region) (float64, float64) {
	for _, r := range regions {
		end := start + dur
		if !(start < r.End() && r.StartTime < end) {
			continue
		}
		if start < r.StartTime {
			end = r.StartTime
			start = math.Max(0, end-dur)
			dur = end - start
		} else {
			start = r.End()
		}
	}
	return start, dur
}

func sortRegions(regions []graph.Region) []graph.Region {
	slices.SortStableFunc(regions, func(a, b graph.Region) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return regions
}

func regionIDs(a *graph.AutomationState) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, l := range a.Lanes {
		for _, r := range l.Regions {
			ids[r.ID] = struct{}{}
		}
	}
	return ids
}

// updateLane copies the timeline and the lane slice, then lets fn edit the
// lane copy. fn must replace lane.Regions rather than write into it. When fn
// reports no change, g is returned.
func updateLane(g *graph.Graph, laneID string, fn func(a *graph.AutomationState, lane *graph.Lane) bool) *graph.Graph {
	if g == nil || g.Automation == nil {
		return g
	}
	idx := slices.IndexFunc(g.Automation.Lanes, func(l graph.Lane) bool { return l.ID == laneID })
	if idx < 0 {
		return g
	}
	a := *g.Automation
	a.Lanes = slices.Clone(a.Lanes)
	if !fn(&a, &a.Lanes[idx]) {
		return g
	}
	return graph.WithAutomation(g, &a)
}
