// Package automation edits and evaluates the automation timeline of a graph.
//
// A timeline holds lanes, one per automated node parameter. Each lane holds
// regions, time intervals that carry a keyframed curve. Mutators in this
// package return a new graph and never modify their input. When a call
// changes nothing (unknown lane or region id, unchanged tempo) the input
// pointer is returned, so callers detect no-ops with ==.
//
// # Region Packing
//
// [AddRegion] and [UpdateRegion] keep regions apart with a single greedy
// pass over the lane's other regions in stored order. A region that overlaps
// a later neighbour is cut back to end where the neighbour starts. A region
// that overlaps an earlier or equal neighbour is pushed to start where the
// neighbour ends. The pass is not repeated, so a crowded lane can keep some
// overlap; validation reports it.
//
// # Curves
//
// [Evaluate] maps normalized time in [0,1] to a curve value. Keyframes are
// read in time order whatever their stored order, and values before the first
// or after the last keyframe hold that keyframe's value.
package automation
