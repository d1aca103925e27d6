package document

import (
	"fmt"
	"os"

	"github.com/shadercomposer/nodegraph/pkg/errors"
	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
)

// ReadFile loads and validates the document at path with the default
// registry. The error is only set when the file cannot be read; document
// problems are reported in the Result.
func ReadFile(path string, catalog *nodespec.Catalog) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "document not found: %s", path)
		}
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DeserializeGraph(data, catalog), nil
}

// WriteFile serializes g and audio to path with 0644 permissions.
func WriteFile(path string, g *graph.Graph, audio *AudioSetup, pretty bool) error {
	data, err := SerializeGraph(g, pretty, audio)
	if err != nil {
		return err
	}
	if pretty {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
