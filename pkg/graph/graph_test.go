package graph

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *Graph {
	return &Graph{
		ID:      "g1",
		Name:    "sample",
		Version: DefaultGraphVersion,
		Nodes: []Node{
			{ID: "n1", Type: "uv-coordinates", Parameters: map[string]any{}},
			{ID: "n2", Type: "noise", Parameters: map[string]any{"noiseScale": 2.0, "offset": []any{1.0, 2.0}}},
			{ID: "n3", Type: "blur", Parameters: map[string]any{}},
		},
		Connections: []Connection{
			{ID: "c1", SourceNodeID: "n1", SourcePort: "out", TargetNodeID: "n2", TargetPort: "in"},
			{ID: "c2", SourceNodeID: "n2", SourcePort: "out", TargetNodeID: "n3", TargetParameter: "radius"},
		},
		Automation: &AutomationState{
			BPM:             120,
			DurationSeconds: 30,
			Lanes: []Lane{
				{ID: "l1", NodeID: "n2", ParamName: "noiseScale", Regions: []Region{
					{ID: "r1", StartTime: 0, Duration: 4, Curve: Curve{
						Keyframes:     []Keyframe{{Time: 0, Value: 0}, {Time: 1, Value: 1}},
						Interpolation: InterpolationLinear,
					}},
				}},
				{ID: "l2", NodeID: "n3", ParamName: "radius"},
			},
		},
	}
}

func TestNew(t *testing.T) {
	g := New("", "untitled")
	assert.True(t, strings.HasPrefix(g.ID, "graph-"))
	assert.Equal(t, "untitled", g.Name)
	assert.Equal(t, DefaultGraphVersion, g.Version)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Connections)
	assert.Nil(t, g.Automation)

	assert.Equal(t, "fixed", New("fixed", "").ID)
}

func TestLookups(t *testing.T) {
	g := sampleGraph()

	n, ok := g.FindNode("n2")
	require.True(t, ok)
	assert.Equal(t, "noise", n.Type)

	_, ok = g.FindNode("missing")
	assert.False(t, ok)

	c, ok := g.FindConnection("c2")
	require.True(t, ok)
	assert.Equal(t, "radius", c.TargetParameter)

	from := g.ConnectionsFromNode("n2")
	require.Len(t, from, 1)
	assert.Equal(t, "c2", from[0].ID)

	to := g.ConnectionsToNode("n2")
	require.Len(t, to, 1)
	assert.Equal(t, "c1", to[0].ID)

	assert.Empty(t, g.ConnectionsToNode("n1"))

	l, ok := g.LaneFor("n2", "noiseScale")
	require.True(t, ok)
	assert.Equal(t, "l1", l.ID)

	_, ok = g.FindLane("l2")
	assert.True(t, ok)

	assert.Equal(t, Stats{Nodes: 3, Connections: 2, Lanes: 2, Regions: 1}, g.Stats())
}

func TestNilGraphLookups(t *testing.T) {
	var g *Graph
	_, ok := g.FindNode("x")
	assert.False(t, ok)
	_, ok = g.FindConnection("x")
	assert.False(t, ok)
	_, ok = g.FindLane("x")
	assert.False(t, ok)
	assert.Nil(t, g.ConnectionsFromNode("x"))
	assert.Equal(t, Stats{}, g.Stats())
}

func TestConnectionTargets(t *testing.T) {
	tests := []struct {
		name   string
		conn   Connection
		single bool
		target string
	}{
		{name: "port", conn: Connection{TargetPort: "in"}, single: true, target: "in"},
		{name: "parameter", conn: Connection{TargetParameter: "noiseScale"}, single: true, target: "noiseScale"},
		{name: "both", conn: Connection{TargetPort: "in", TargetParameter: "noiseScale"}, single: false, target: "in"},
		{name: "neither", conn: Connection{}, single: false, target: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.single, tt.conn.HasSingleTarget())
			assert.Equal(t, tt.target, tt.conn.TargetName())
		})
	}
}

func TestAddNodeDoesNotMutate(t *testing.T) {
	g := sampleGraph()
	before := Clone(g)

	next := AddNode(g, Node{ID: "n4", Type: "mix"})

	assert.Equal(t, before, g)
	require.Len(t, next.Nodes, 4)
	assert.NotNil(t, next.Nodes[3].Parameters)
	assert.Same(t, g.Automation, next.Automation)
}

func TestRemoveNode(t *testing.T) {
	g := sampleGraph()
	before := Clone(g)

	next := RemoveNode(g, "n2")

	assert.Equal(t, before, g)
	assert.Len(t, next.Nodes, 2)
	assert.Empty(t, next.Connections)
	require.Len(t, next.Automation.Lanes, 1)
	assert.Equal(t, "l2", next.Automation.Lanes[0].ID)

	assert.Same(t, g, RemoveNode(g, "missing"))
}

func TestUpdateNodeParameter(t *testing.T) {
	g := sampleGraph()

	next := UpdateNodeParameter(g, "n2", "noiseScale", 5.0)

	assert.Equal(t, 2.0, g.Nodes[1].Parameters["noiseScale"])
	assert.Equal(t, 5.0, next.Nodes[1].Parameters["noiseScale"])
	assert.Equal(t, []any{1.0, 2.0}, next.Nodes[1].Parameters["offset"])

	assert.Same(t, g, UpdateNodeParameter(g, "missing", "x", 1.0))
}

func TestMoveAndLabel(t *testing.T) {
	g := sampleGraph()

	moved := MoveNode(g, "n1", Position{X: 10, Y: 20})
	assert.Equal(t, Position{}, g.Nodes[0].Position)
	assert.Equal(t, Position{X: 10, Y: 20}, moved.Nodes[0].Position)

	labeled := SetNodeLabel(g, "n1", "UV")
	assert.Equal(t, "UV", labeled.Nodes[0].DisplayLabel())
	assert.Equal(t, "n1", g.Nodes[0].DisplayLabel())
}

func TestConnectionMutators(t *testing.T) {
	g := sampleGraph()

	added := AddConnection(g, Connection{ID: "c3", SourceNodeID: "n1", SourcePort: "out", TargetNodeID: "n3", TargetPort: "in"})
	assert.Len(t, g.Connections, 2)
	assert.Len(t, added.Connections, 3)

	removed := RemoveConnection(added, "c1")
	assert.Len(t, added.Connections, 3)
	require.Len(t, removed.Connections, 2)
	assert.Equal(t, "c2", removed.Connections[0].ID)

	assert.Same(t, g, RemoveConnection(g, "missing"))
}

func TestCloneIsDeep(t *testing.T) {
	g := sampleGraph()
	c := Clone(g)

	require.Equal(t, g, c)

	c.Nodes[1].Parameters["offset"].([]any)[0] = 99.0
	c.Automation.Lanes[0].Regions[0].Curve.Keyframes[0].Value = 0.5

	assert.Equal(t, 1.0, g.Nodes[1].Parameters["offset"].([]any)[0])
	assert.Equal(t, 0.0, g.Automation.Lanes[0].Regions[0].Curve.Keyframes[0].Value)
	assert.Nil(t, Clone(nil))
}

func TestJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(sampleGraph())
	require.NoError(t, err)

	s := string(data)
	for _, key := range []string{`"sourceNodeId"`, `"targetNodeId"`, `"targetPort"`, `"targetParameter"`, `"durationSeconds"`, `"paramName"`, `"startTime"`} {
		assert.Contains(t, s, key)
	}
	assert.NotContains(t, s, `"label"`)
}

func TestRegionOverlaps(t *testing.T) {
	a := Region{StartTime: 0, Duration: 2}
	b := Region{StartTime: 2, Duration: 2}
	c := Region{StartTime: 1, Duration: 2}

	assert.False(t, a.Overlaps(b), "touching regions do not overlap")
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
	assert.Equal(t, 4.0, b.End())
}

func TestClamps(t *testing.T) {
	assert.Equal(t, MinBPM, ClampBPM(5))
	assert.Equal(t, MaxBPM, ClampBPM(1000))
	assert.Equal(t, 90.0, ClampBPM(90))

	assert.Equal(t, MinDurationSeconds, ClampDuration(0))
	assert.Equal(t, DefaultDurationSeconds, ClampDuration(math.Inf(1)))
	assert.Equal(t, 12.5, ClampDuration(12.5))
}

func TestGenerateIDs(t *testing.T) {
	existing := IDSet("node-a")

	id := GenerateNodeID(existing)
	assert.True(t, strings.HasPrefix(id, "node-"))
	assert.NotContains(t, existing, id)
	assert.Len(t, id, len("node-")+12)

	assert.True(t, strings.HasPrefix(GenerateConnectionID(nil), "conn-"))
	assert.True(t, strings.HasPrefix(GenerateLaneID(nil), "lane-"))
	assert.True(t, strings.HasPrefix(GenerateRegionID(nil), "region-"))

	seen := map[string]struct{}{}
	for range 100 {
		id := GenerateConnectionID(seen)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestIsSignalSource(t *testing.T) {
	assert.True(t, IsSignalSource("audio-signal:remap-band-B"))
	assert.False(t, IsSignalSource("n1"))
	assert.True(t, Connection{SourceNodeID: "audio-signal:band-B-remap"}.FromSignal())
}
