package document

import (
	"encoding/json"
	"fmt"

	"github.com/shadercomposer/nodegraph/pkg/graph"
)

// SerializeGraph encodes g and an optional audio setup as a current-version
// envelope. Output is indented with two spaces when pretty is set. Map keys
// are sorted, so equal inputs always encode to identical strings.
func SerializeGraph(g *graph.Graph, pretty bool, audio *AudioSetup) (string, error) {
	if g == nil {
		return "", fmt.Errorf("serialize: nil graph")
	}
	env := Envelope{
		Format:        Format,
		FormatVersion: CurrentVersion,
		Graph:         g,
		AudioSetup:    audio,
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(env, "", "  ")
	} else {
		data, err = json.Marshal(env)
	}
	if err != nil {
		return "", fmt.Errorf("serialize: %w", err)
	}
	return string(data), nil
}
