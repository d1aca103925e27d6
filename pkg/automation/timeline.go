package automation

import (
	"github.com/shadercomposer/nodegraph/pkg/graph"
)

// SetBPM returns a graph with the tempo set to bpm clamped to
// [graph.MinBPM, graph.MaxBPM]. Returns g if the tempo is unchanged. A graph
// without automation gets a default timeline.
func SetBPM(g *graph.Graph, bpm float64) *graph.Graph {
	if g == nil {
		return g
	}
	bpm = graph.ClampBPM(bpm)
	if g.Automation != nil && g.Automation.BPM == bpm {
		return g
	}
	a := timeline(g)
	a.BPM = bpm
	return graph.WithAutomation(g, a)
}

// SetDuration returns a graph with the timeline length set to seconds,
// clamped to at least graph.MinDurationSeconds. Non-finite input means
// graph.DefaultDurationSeconds. Returns g if the length is unchanged.
// Regions past the new end are kept; validation reports them.
func SetDuration(g *graph.Graph, seconds float64) *graph.Graph {
	if g == nil {
		return g
	}
	seconds = graph.ClampDuration(seconds)
	if g.Automation != nil && g.Automation.DurationSeconds == seconds {
		return g
	}
	a := timeline(g)
	a.DurationSeconds = seconds
	return graph.WithAutomation(g, a)
}

// BeatsToSeconds converts a beat count to seconds at the timeline tempo.
func BeatsToSeconds(a *graph.AutomationState, beats float64) float64 {
	bpm := graph.DefaultBPM
	if a != nil {
		bpm = graph.ClampBPM(a.BPM)
	}
	return beats * 60 / bpm
}

func timeline(g *graph.Graph) *graph.AutomationState {
	if g.Automation == nil {
		return graph.NewAutomationState()
	}
	a := *g.Automation
	return &a
}
