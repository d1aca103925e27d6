package params

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
)

func ptr(f float64) *float64 { return &f }

func noiseSpec() *nodespec.Spec {
	return &nodespec.Spec{
		ID: "noise",
		Parameters: map[string]nodespec.ParameterSpec{
			"noiseScale": {Type: nodespec.TypeFloat, Default: 1.0, Min: ptr(0), Max: ptr(10)},
			"octaves":    {Type: nodespec.TypeInt, Default: 4.0, Min: ptr(1), Max: ptr(8)},
			"noiseType":  {Type: nodespec.TypeString},
			"offset":     {Type: nodespec.TypeVec2},
		},
	}
}

func TestGetParameterValue(t *testing.T) {
	spec := noiseSpec()
	node := &graph.Node{ID: "n1", Type: "noise", Parameters: map[string]any{"noiseScale": 3.0}}

	tests := []struct {
		name  string
		node  *graph.Node
		param string
		spec  *nodespec.Spec
		want  any
	}{
		{name: "stored value", node: node, param: "noiseScale", spec: spec, want: 3.0},
		{name: "spec default", node: node, param: "octaves", spec: spec, want: 4.0},
		{name: "string zero", node: node, param: "noiseType", spec: spec, want: ""},
		{name: "vector zero", node: node, param: "offset", spec: spec, want: []float64{0, 0}},
		{name: "undeclared", node: node, param: "nope", spec: spec, want: nil},
		{name: "no spec", node: node, param: "octaves", spec: nil, want: nil},
		{name: "nil node", node: nil, param: "noiseScale", spec: spec, want: 1.0},
		{name: "stored without spec", node: node, param: "noiseScale", spec: nil, want: 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetParameterValue(tt.node, tt.param, tt.spec))
		})
	}
}

func TestCoerceParameterValue(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		typ     nodespec.ParamType
		want    any
		wantErr bool
	}{
		{name: "int rounds up", value: 5.7, typ: nodespec.TypeInt, want: 6},
		{name: "int rounds half up", value: 2.5, typ: nodespec.TypeInt, want: 3},
		{name: "int negative half", value: -2.5, typ: nodespec.TypeInt, want: -2},
		{name: "int from string", value: " 7.2 ", typ: nodespec.TypeInt, want: 7},
		{name: "int from json number", value: json.Number("3"), typ: nodespec.TypeInt, want: 3},
		{name: "int from word", value: "seven", typ: nodespec.TypeInt, wantErr: true},
		{name: "int from bool", value: true, typ: nodespec.TypeInt, wantErr: true},
		{name: "float passthrough", value: 0.25, typ: nodespec.TypeFloat, want: 0.25},
		{name: "float from int", value: 3, typ: nodespec.TypeFloat, want: 3.0},
		{name: "float from string", value: "1e-3", typ: nodespec.TypeFloat, want: 0.001},
		{name: "float from empty", value: "", typ: nodespec.TypeFloat, wantErr: true},
		{name: "float from nil", value: nil, typ: nodespec.TypeFloat, wantErr: true},
		{name: "float from array", value: []any{1.0}, typ: nodespec.TypeFloat, wantErr: true},
		{name: "string from float", value: 1.5, typ: nodespec.TypeString, want: "1.5"},
		{name: "string from bool", value: false, typ: nodespec.TypeString, want: "false"},
		{name: "string from array", value: []any{1.0, "a"}, typ: nodespec.TypeString, want: `[1,"a"]`},
		{name: "string from nil", value: nil, typ: nodespec.TypeString, want: ""},
		{name: "vec3 pads", value: []any{1.0, 2.0}, typ: nodespec.TypeVec3, want: []float64{1, 2, 0}},
		{name: "vec2 truncates", value: []any{1.0, 2.0, 3.0}, typ: nodespec.TypeVec2, want: []float64{1, 2}},
		{name: "vec4 from floats", value: []float64{1, 1, 1, 1}, typ: nodespec.TypeVec4, want: []float64{1, 1, 1, 1}},
		{name: "vec2 numeric strings", value: []any{"0.5", 1.0}, typ: nodespec.TypeVec2, want: []float64{0.5, 1}},
		{name: "vec2 bad component", value: []any{"x", 1.0}, typ: nodespec.TypeVec2, wantErr: true},
		{name: "vec2 from scalar", value: 1.0, typ: nodespec.TypeVec2, wantErr: true},
		{name: "unknown type", value: 1.0, typ: "matrix", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceParameterValue(tt.value, tt.typ)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrCoerce)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInRange(t *testing.T) {
	spec := noiseSpec()
	scale := spec.Parameters["noiseScale"]

	assert.True(t, InRange(5.0, scale))
	assert.True(t, InRange(10.0, scale))
	assert.False(t, InRange(20.0, scale))
	assert.False(t, InRange(-0.1, scale))
	assert.True(t, InRange(3, spec.Parameters["octaves"]))
	assert.False(t, InRange(9, spec.Parameters["octaves"]))
	assert.True(t, InRange("anything", spec.Parameters["noiseType"]))

	bounded := nodespec.ParameterSpec{Type: nodespec.TypeVec2, Min: ptr(0), Max: ptr(1)}
	assert.True(t, InRange([]float64{0, 1}, bounded))
	assert.False(t, InRange([]float64{0, 2}, bounded))
}

func TestResolve(t *testing.T) {
	spec := noiseSpec()
	node := &graph.Node{Parameters: map[string]any{"octaves": "bogus", "noiseScale": "2.5"}}

	assert.Equal(t, 4, Resolve(node, "octaves", spec), "falls back to coerced default")
	assert.Equal(t, 2.5, Resolve(node, "noiseScale", spec))
	assert.Equal(t, []float64{0, 0}, Resolve(node, "offset", spec))
	assert.Nil(t, Resolve(node, "nope", spec))
	assert.Nil(t, Resolve(node, "octaves", nil))
}

func TestZeroValue(t *testing.T) {
	assert.Equal(t, 0, ZeroValue(nodespec.TypeInt))
	assert.Equal(t, 0.0, ZeroValue(nodespec.TypeFloat))
	assert.Equal(t, "", ZeroValue(nodespec.TypeString))
	assert.Equal(t, []float64{0, 0, 0, 0}, ZeroValue(nodespec.TypeVec4))
	assert.Nil(t, ZeroValue("unknown"))
}
