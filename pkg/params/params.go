// Package params resolves and coerces node parameter values.
//
// [GetParameterValue] answers "what value does this parameter have" using the
// node's stored value, then the declared default, then a type zero value.
// [CoerceParameterValue] converts a JSON-decoded value to a declared type and
// is the single place that decides whether a value has the wrong type.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
)

// ErrCoerce is returned when a value cannot be converted to a parameter type.
var ErrCoerce = errors.New("cannot coerce value")

// maxSafeInteger bounds int coercion to integers exactly representable as float64.
const maxSafeInteger = 1<<53 - 1

// GetParameterValue returns the value of a parameter on node. The stored
// value wins, then the declared default, then the zero value of the declared
// type. With no spec and no stored value it returns nil. It never fails.
func GetParameterValue(node *graph.Node, name string, spec *nodespec.Spec) any {
	if node != nil {
		if v, ok := node.Parameters[name]; ok && v != nil {
			return v
		}
	}
	if spec == nil {
		return nil
	}
	p, ok := spec.Parameters[name]
	if !ok {
		return nil
	}
	if p.Default != nil {
		return p.Default
	}
	return ZeroValue(p.Type)
}

// Resolve returns the parameter value coerced to its declared type. If the
// resolved value does not coerce, the default and then the zero value are
// tried instead. Undeclared parameters resolve to nil.
func Resolve(node *graph.Node, name string, spec *nodespec.Spec) any {
	if spec == nil {
		return nil
	}
	p, ok := spec.Parameters[name]
	if !ok {
		return nil
	}
	if v, err := CoerceParameterValue(GetParameterValue(node, name, spec), p.Type); err == nil {
		return v
	}
	if v, err := CoerceParameterValue(p.Default, p.Type); err == nil {
		return v
	}
	return ZeroValue(p.Type)
}

// ZeroValue returns the zero value for t: 0 for int, 0.0 for float, "" for
// string and an all-zero slice for vectors. Unknown types yield nil.
func ZeroValue(t nodespec.ParamType) any {
	switch t {
	case nodespec.TypeInt:
		return 0
	case nodespec.TypeFloat:
		return 0.0
	case nodespec.TypeString:
		return ""
	}
	if n := t.Dimension(); n > 0 {
		return make([]float64, n)
	}
	return nil
}

// CoerceParameterValue converts value to t.
//
//   - int: numbers round half up (5.7 → 6), numeric strings are parsed
//   - float: numbers pass through, numeric strings are parsed
//   - string: any value is stringified
//   - vecN: arrays become []float64 of length N, copied positionally with
//     missing components set to 0
//
// Results are int, float64, string or []float64. Values that cannot be
// converted return an error wrapping [ErrCoerce].
func CoerceParameterValue(value any, t nodespec.ParamType) (any, error) {
	switch t {
	case nodespec.TypeInt:
		f, err := toFloat(value)
		if err != nil {
			return nil, coerceError(value, t)
		}
		r := math.Floor(f + 0.5)
		if math.Abs(r) > maxSafeInteger {
			return nil, coerceError(value, t)
		}
		return int(r), nil
	case nodespec.TypeFloat:
		f, err := toFloat(value)
		if err != nil {
			return nil, coerceError(value, t)
		}
		return f, nil
	case nodespec.TypeString:
		return stringify(value), nil
	}
	if n := t.Dimension(); n > 0 {
		v, err := toVector(value, n)
		if err != nil {
			return nil, coerceError(value, t)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: unknown parameter type %q", ErrCoerce, t)
}

// InRange reports whether a coerced value satisfies p's declared bounds.
// Vectors are checked per component. Strings and undeclared bounds always pass.
func InRange(value any, p nodespec.ParameterSpec) bool {
	if !p.HasRange() {
		return true
	}
	switch v := value.(type) {
	case int:
		return within(float64(v), p)
	case float64:
		return within(v, p)
	case []float64:
		for _, c := range v {
			if !within(c, p) {
				return false
			}
		}
	}
	return true
}

func within(v float64, p nodespec.ParameterSpec) bool {
	if p.Min != nil && v < *p.Min {
		return false
	}
	if p.Max != nil && v > *p.Max {
		return false
	}
	return true
}

func coerceError(value any, t nodespec.ParamType) error {
	return fmt.Errorf("%w: %s to %s", ErrCoerce, describe(value), t)
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T %v", v, v)
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, err
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, ErrCoerce
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, ErrCoerce
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrCoerce
	}
	return f, nil
}

func toVector(v any, n int) ([]float64, error) {
	var src []any
	switch x := v.(type) {
	case []any:
		src = x
	case []float64:
		src = make([]any, len(x))
		for i, c := range x {
			src[i] = c
		}
	case []int:
		src = make([]any, len(x))
		for i, c := range x {
			src[i] = c
		}
	default:
		return nil, ErrCoerce
	}

	out := make([]float64, n)
	for i := 0; i < n && i < len(src); i++ {
		f, err := toFloat(src[i])
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case []any, []float64, map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}
