package graph

import (
	"math"
	"strings"
)

// DefaultGraphVersion is the version stamped on newly created graphs.
const DefaultGraphVersion = "1.0"

// Automation bounds shared by the automation engine and validation.
const (
	MinBPM                 = 20.0
	MaxBPM                 = 300.0
	DefaultBPM             = 120.0
	MinDurationSeconds     = 0.001
	DefaultDurationSeconds = 30.0
)

// Graph is a node graph document.
type Graph struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Version     string           `json:"version"`
	Nodes       []Node           `json:"nodes"`
	Connections []Connection     `json:"connections"`
	Automation  *AutomationState `json:"automation,omitempty"`
}

// Position is a node's location on the editor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is an instance of a node type placed in the graph.
//
// Parameters holds values as decoded from JSON: float64, string, bool or
// []any. Values are resolved and coerced through package params.
type Node struct {
	ID                  string            `json:"id"`
	Type                string            `json:"type"`
	Position            Position          `json:"position"`
	Parameters          map[string]any    `json:"parameters"`
	Label               string            `json:"label,omitempty"`
	ParameterInputModes map[string]string `json:"parameterInputModes,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Connection is a directed edge from an output port to either an input port
// or a parameter of another node.
type Connection struct {
	ID              string `json:"id"`
	SourceNodeID    string `json:"sourceNodeId"`
	SourcePort      string `json:"sourcePort"`
	TargetNodeID    string `json:"targetNodeId"`
	TargetPort      string `json:"targetPort,omitempty"`
	TargetParameter string `json:"targetParameter,omitempty"`
}

// SignalSourcePrefix marks connection sources that are host-provided signals,
// such as audio bands, rather than nodes of the graph.
const SignalSourcePrefix = "audio-signal:"

// IsSignalSource reports whether a connection source id names a host signal.
func IsSignalSource(id string) bool { return strings.HasPrefix(id, SignalSourcePrefix) }

// FromSignal reports whether the connection is driven by a host signal.
func (c Connection) FromSignal() bool { return IsSignalSource(c.SourceNodeID) }

// TargetsPort reports whether the connection names a target input port.
func (c Connection) TargetsPort() bool { return c.TargetPort != "" }

// TargetsParameter reports whether the connection names a target parameter.
func (c Connection) TargetsParameter() bool { return c.TargetParameter != "" }

// HasSingleTarget reports whether exactly one target selector is set.
func (c Connection) HasSingleTarget() bool { return c.TargetsPort() != c.TargetsParameter() }

// TargetName returns whichever target selector is set, port first.
func (c Connection) TargetName() string {
	if c.TargetPort != "" {
		return c.TargetPort
	}
	return c.TargetParameter
}

// Interpolation selects how a curve blends between keyframes.
type Interpolation string

// Supported interpolation modes.
const (
	InterpolationLinear  Interpolation = "linear"
	InterpolationBezier  Interpolation = "bezier"
	InterpolationStepped Interpolation = "stepped"
)

// Valid reports whether i is a known interpolation mode.
func (i Interpolation) Valid() bool {
	return i == InterpolationLinear || i == InterpolationBezier || i == InterpolationStepped
}

// Keyframe is a point on a curve. Time and Value are normalized to [0,1].
type Keyframe struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

// Curve maps normalized region time to a normalized value.
type Curve struct {
	Keyframes     []Keyframe    `json:"keyframes"`
	Interpolation Interpolation `json:"interpolation"`
}

// Region is a time interval of a lane holding a curve.
type Region struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
	Loop      bool    `json:"loop"`
	Curve     Curve   `json:"curve"`
}

// End returns StartTime + Duration.
func (r Region) End() float64 { return r.StartTime + r.Duration }

// Overlaps reports whether the half-open intervals of r and o intersect.
func (r Region) Overlaps(o Region) bool {
	return r.StartTime < o.End() && o.StartTime < r.End()
}

// Lane is the automation timeline of one node parameter.
type Lane struct {
	ID        string   `json:"id"`
	NodeID    string   `json:"nodeId"`
	ParamName string   `json:"paramName"`
	Regions   []Region `json:"regions"`
}

// AutomationState is the graph-wide automation timeline.
type AutomationState struct {
	BPM             float64 `json:"bpm"`
	DurationSeconds float64 `json:"durationSeconds"`
	Lanes           []Lane  `json:"lanes"`
}

// NewAutomationState returns an empty timeline with default tempo and length.
func NewAutomationState() *AutomationState {
	return &AutomationState{
		BPM:             DefaultBPM,
		DurationSeconds: DefaultDurationSeconds,
		Lanes:           []Lane{},
	}
}

// ClampBPM limits bpm to [MinBPM, MaxBPM]. NaN maps to DefaultBPM.
func ClampBPM(bpm float64) float64 {
	if math.IsNaN(bpm) {
		return DefaultBPM
	}
	return math.Min(MaxBPM, math.Max(MinBPM, bpm))
}

// ClampDuration limits seconds to at least MinDurationSeconds. Non-finite
// input maps to DefaultDurationSeconds.
func ClampDuration(seconds float64) float64 {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return DefaultDurationSeconds
	}
	return math.Max(MinDurationSeconds, seconds)
}
