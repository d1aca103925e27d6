package nodespec

import (
	"maps"
	"slices"
)

// ParamType is the declared type of a node parameter.
type ParamType string

// Parameter types understood by the core.
const (
	TypeFloat  ParamType = "float"
	TypeInt    ParamType = "int"
	TypeString ParamType = "string"
	TypeVec2   ParamType = "vec2"
	TypeVec3   ParamType = "vec3"
	TypeVec4   ParamType = "vec4"
)

// Dimension returns the component count of a vector type, or 0 for scalars.
func (t ParamType) Dimension() int {
	switch t {
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	default:
		return 0
	}
}

// IsNumeric reports whether t is a scalar numeric type (float or int).
func (t ParamType) IsNumeric() bool { return t == TypeFloat || t == TypeInt }

// Valid reports whether t is one of the known parameter types.
func (t ParamType) Valid() bool {
	switch t {
	case TypeFloat, TypeInt, TypeString, TypeVec2, TypeVec3, TypeVec4:
		return true
	}
	return false
}

// Port is a typed input or output slot on a node.
type Port struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// ParameterSpec declares one parameter of a node type.
// Min and Max are only meaningful for numeric types.
type ParameterSpec struct {
	Type    ParamType `json:"type" yaml:"type"`
	Default any       `json:"default,omitempty" yaml:"default,omitempty"`
	Min     *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// HasRange reports whether a minimum or maximum is declared.
func (p ParameterSpec) HasRange() bool { return p.Min != nil || p.Max != nil }

// Spec describes a node type.
type Spec struct {
	ID         string                   `json:"id" yaml:"id"`
	Label      string                   `json:"label,omitempty" yaml:"label,omitempty"`
	Category   string                   `json:"category,omitempty" yaml:"category,omitempty"`
	Inputs     []Port                   `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs    []Port                   `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Parameters map[string]ParameterSpec `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Input returns the input port with the given name.
func (s *Spec) Input(name string) (Port, bool) { return findPort(s.Inputs, name) }

// Output returns the output port with the given name.
func (s *Spec) Output(name string) (Port, bool) { return findPort(s.Outputs, name) }

// Parameter returns the declared parameter with the given name.
func (s *Spec) Parameter(name string) (ParameterSpec, bool) {
	p, ok := s.Parameters[name]
	return p, ok
}

// ParameterNames returns the declared parameter names in sorted order.
func (s *Spec) ParameterNames() []string {
	return slices.Sorted(maps.Keys(s.Parameters))
}

func findPort(ports []Port, name string) (Port, bool) {
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// Catalog indexes node specs by id. A nil *Catalog is an empty catalog.
type Catalog struct {
	specs map[string]*Spec
}

// NewCatalog builds a catalog from specs. When two specs share an id the
// later one wins.
func NewCatalog(specs ...Spec) *Catalog {
	c := &Catalog{specs: make(map[string]*Spec, len(specs))}
	for i := range specs {
		s := specs[i]
		c.specs[s.ID] = &s
	}
	return c
}

// Lookup returns the spec registered for a node type.
func (c *Catalog) Lookup(id string) (*Spec, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.specs[id]
	return s, ok
}

// Len returns the number of node types in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.specs)
}

// Specs returns all specs sorted by id.
func (c *Catalog) Specs() []*Spec {
	if c == nil {
		return nil
	}
	out := make([]*Spec, 0, len(c.specs))
	for _, id := range slices.Sorted(maps.Keys(c.specs)) {
		out = append(out, c.specs[id])
	}
	return out
}
