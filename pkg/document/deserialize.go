package document

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/shadercomposer/nodegraph/pkg/errors"
	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
	"github.com/shadercomposer/nodegraph/pkg/validate"
)

// Result is the outcome of loading a document. Graph is nil when the
// document could not be read or failed validation; Errors then says why.
// Applied lists the names of the migrations that changed the document.
type Result struct {
	Graph      *graph.Graph
	AudioSetup *AudioSetup
	Version    string
	Errors     []*errors.Error
	Warnings   []*errors.Error
	Applied    []string
}

// OK reports whether a graph was produced.
func (r Result) OK() bool { return r.Graph != nil }

// DeserializeGraph parses, migrates and validates a document with the
// default registry. Validation warnings are always reported; validation
// errors clear Graph and AudioSetup.
func DeserializeGraph(data []byte, catalog *nodespec.Catalog) Result {
	return DefaultRegistry().Deserialize(data, catalog)
}

// DeserializeGraphUnvalidated parses and migrates a document with the
// default registry without validating the graph.
func DeserializeGraphUnvalidated(data []byte) Result {
	return DefaultRegistry().DeserializeUnvalidated(data)
}

// Deserialize is [DeserializeGraph] using the migrations of r.
func (r *Registry) Deserialize(data []byte, catalog *nodespec.Catalog) Result {
	res := r.DeserializeUnvalidated(data)
	if res.Graph == nil {
		return res
	}
	v := validate.ValidateGraph(res.Graph, catalog)
	res.Warnings = append(res.Warnings, v.Warnings...)
	if !v.Valid {
		res.Errors = append(res.Errors, v.Errors...)
		res.Graph = nil
		res.AudioSetup = nil
	}
	return res
}

// DeserializeUnvalidated is [DeserializeGraphUnvalidated] using the
// migrations of r.
func (r *Registry) DeserializeUnvalidated(data []byte) Result {
	env, version, issue := r.decode(data)
	if issue != nil {
		return Result{Version: version, Errors: []*errors.Error{issue}}
	}
	g, audio, applied := r.Run(version, env.Graph, env.AudioSetup)
	return Result{
		Graph:      g,
		AudioSetup: audio,
		Version:    version,
		Applied:    applied,
	}
}

// decode is the two-phase envelope parse. The returned version is set as
// soon as it is known, even when a later check fails.
func (r *Registry) decode(data []byte) (*Envelope, string, *errors.Error) {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeParse, err, "Invalid JSON")
	}

	var format string
	if !present(raw.Format) {
		return nil, "", errors.New(errors.ErrCodeInvalidFormat, "Missing document format, expected %q", Format)
	}
	if err := json.Unmarshal(raw.Format, &format); err != nil || format != Format {
		return nil, "", errors.New(errors.ErrCodeInvalidFormat,
			"Invalid document format %s, expected %q", strings.TrimSpace(string(raw.Format)), Format)
	}

	var version string
	if !present(raw.FormatVersion) {
		return nil, "", errors.New(errors.ErrCodeMissingVersion, "Missing format version (formatVersion)")
	}
	if err := json.Unmarshal(raw.FormatVersion, &version); err != nil || version == "" {
		return nil, "", errors.New(errors.ErrCodeMissingVersion,
			"Invalid format version (formatVersion) %s, expected a string", strings.TrimSpace(string(raw.FormatVersion)))
	}
	if !r.Supports(version) {
		return nil, version, errors.New(errors.ErrCodeUnsupportedVersion,
			"Unsupported format version %q (supported: %s)", version, strings.Join(r.SupportedVersions(), ", "))
	}

	if !present(raw.Graph) {
		return nil, version, errors.New(errors.ErrCodeInvalidFormat, "Document has no graph")
	}
	env := &Envelope{Format: format, FormatVersion: version}
	if err := json.Unmarshal(raw.Graph, &env.Graph); err != nil {
		return nil, version, errors.Wrap(errors.ErrCodeParse, err, "Invalid graph")
	}
	if present(raw.AudioSetup) {
		if err := json.Unmarshal(raw.AudioSetup, &env.AudioSetup); err != nil {
			return nil, version, errors.Wrap(errors.ErrCodeParse, err, "Invalid audioSetup")
		}
	}
	return env, version, nil
}

// SupportedVersions returns the versions the default registry can load.
func SupportedVersions() []string {
	return DefaultRegistry().SupportedVersions()
}

func sortedUnique(versions []string) []string {
	slices.Sort(versions)
	return slices.Compact(versions)
}
