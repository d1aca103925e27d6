package nodespec

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned by [LoadFile] when the format cannot be
// derived from the file extension.
var ErrUnknownFormat = errors.New("unknown catalog format")

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns the catalog of node types shipped with this package.
// It panics if the embedded catalog is malformed, which is a build defect.
func Builtin() *Catalog {
	c, err := Load(bytes.NewReader(builtinYAML), FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("nodespec: builtin catalog: %v", err))
	}
	return c
}

// Load decodes a list of specs in the given format.
func Load(r io.Reader, format string) (*Catalog, error) {
	var specs []Spec
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&specs); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&specs); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	for i := range specs {
		if specs[i].ID == "" {
			return nil, fmt.Errorf("spec at index %d: missing id", i)
		}
		for name, p := range specs[i].Parameters {
			if !p.Type.Valid() {
				return nil, fmt.Errorf("spec %s: parameter %s: unknown type %q", specs[i].ID, name, p.Type)
			}
			p.Default = normalizeValue(p.Default)
			specs[i].Parameters[name] = p
		}
	}
	return NewCatalog(specs...), nil
}

// LoadFile reads a catalog from path. The format is chosen by extension:
// .json for JSON, .yaml or .yml for YAML.
func LoadFile(path string) (*Catalog, error) {
	format, err := formatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, format)
}

func formatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// normalizeValue converts YAML integers to float64 so defaults have the same
// shape as values decoded from a JSON document.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
