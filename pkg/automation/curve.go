package automation

import (
	"cmp"
	"math"
	"slices"

	"github.com/shadercomposer/nodegraph/pkg/graph"
)

// Evaluate returns the value of curve at normalized time t.
//
// Before the first keyframe and after the last, the endpoint value holds.
// Between two keyframes the value is blended by the curve interpolation:
// linear blends linearly, stepped holds the left value and bezier eases in
// and out with a smoothstep. Unknown modes blend linearly. A curve without
// keyframes evaluates to 0.
func Evaluate(curve graph.Curve, t float64) float64 {
	keys := sortedKeyframes(curve.Keyframes)
	if len(keys) == 0 {
		return 0
	}
	if math.IsNaN(t) {
		t = 0
	}

	first, last := keys[0], keys[len(keys)-1]
	if t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	i := slices.IndexFunc(keys, func(k graph.Keyframe) bool { return k.Time > t })
	a, b := keys[i-1], keys[i]
	span := b.Time - a.Time
	if span <= 0 {
		return b.Value
	}
	u := (t - a.Time) / span

	switch curve.Interpolation {
	case graph.InterpolationStepped:
		return a.Value
	case graph.InterpolationBezier:
		u = u * u * (3 - 2*u)
	}
	return a.Value + (b.Value-a.Value)*u
}

// ValueAt evaluates lane at the given timeline position. It reports false
// when no region covers seconds.
func ValueAt(lane graph.Lane, seconds float64) (float64, bool) {
	r, ok := RegionAt(lane, seconds)
	if !ok {
		return 0, false
	}
	return Evaluate(r.Curve, (seconds-r.StartTime)/r.Duration), true
}

// SampleRegion evaluates the region curve at steps evenly spaced points from
// normalized time 0 to 1. Sample times are absolute timeline seconds.
func SampleRegion(region graph.Region, steps int) []graph.Keyframe {
	if steps <= 0 {
		return nil
	}
	if steps == 1 {
		return []graph.Keyframe{{Time: region.StartTime, Value: Evaluate(region.Curve, 0)}}
	}
	out := make([]graph.Keyframe, steps)
	for i := range out {
		u := float64(i) / float64(steps-1)
		out[i] = graph.Keyframe{
			Time:  region.StartTime + u*region.Duration,
			Value: Evaluate(region.Curve, u),
		}
	}
	return out
}

func sortedKeyframes(keys []graph.Keyframe) []graph.Keyframe {
	byTime := func(a, b graph.Keyframe) int { return cmp.Compare(a.Time, b.Time) }
	if slices.IsSortedFunc(keys, byTime) {
		return keys
	}
	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, byTime)
	return sorted
}
