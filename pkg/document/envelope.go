package document

import (
	"encoding/json"

	"github.com/shadercomposer/nodegraph/pkg/graph"
)

// Envelope identifiers.
const (
	Format         = "shader-composer-node-graph"
	CurrentVersion = "2.0"
)

// Envelope is the persisted top-level object.
type Envelope struct {
	Format        string       `json:"format"`
	FormatVersion string       `json:"formatVersion"`
	Graph         *graph.Graph `json:"graph"`
	AudioSetup    *AudioSetup  `json:"audioSetup,omitempty"`
}

// rawEnvelope holds the envelope members undecoded so each one can be
// checked before it is trusted.
type rawEnvelope struct {
	Format        json.RawMessage `json:"format"`
	FormatVersion json.RawMessage `json:"formatVersion"`
	Graph         json.RawMessage `json:"graph"`
	AudioSetup    json.RawMessage `json:"audioSetup"`
}

// present reports whether a raw member was given a non-null value.
func present(m json.RawMessage) bool {
	return len(m) > 0 && string(m) != "null"
}
