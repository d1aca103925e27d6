// Package pipeline loads, saves and exports node-graph documents for hosts.
//
// The core packages are pure and never touch disks, caches or loggers. This
// package wraps them for the CLI: it reads files, consults the cache, runs
// the migration registry and validation, emits observability hooks, and
// logs what happened.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, nodespec.Builtin(), logger)
//	doc, err := runner.Load(ctx, "scene.json", pipeline.LoadOptions{})
//	if err != nil {
//	    return err // I/O failure
//	}
//	if !doc.Valid() {
//	    // doc.Errors lists parse and validation problems
//	}
//
//	svg, err := runner.Export(ctx, doc.Graph, pipeline.ExportOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"time"

	"github.com/shadercomposer/nodegraph/pkg/document"
	"github.com/shadercomposer/nodegraph/pkg/errors"
	"github.com/shadercomposer/nodegraph/pkg/graph"
)

// DefaultTTL is how long cached documents and exports are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Format constants for export formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// LoadOptions controls [Runner.Load].
type LoadOptions struct {
	// Refresh bypasses cached migrations.
	Refresh bool

	// SkipValidation loads structurally imperfect documents.
	SkipValidation bool
}

// ExportOptions controls [Runner.Export].
type ExportOptions struct {
	Format    string
	Detailed  bool
	Direction string
	Scale     float64 // PNG only; 0 means 2.0
	Refresh   bool
}

// Loaded is a document read by [Runner.Load].
//
// Graph is set whenever the document parsed, even if it failed validation,
// so tools can still inspect or repair it.
type Loaded struct {
	Path       string
	Graph      *graph.Graph
	AudioSetup *document.AudioSetup
	Version    string
	Applied    []string
	Errors     []*errors.Error
	Warnings   []*errors.Error
	CacheHit   bool
	Duration   time.Duration
}

// Valid reports whether the document parsed and has no errors.
func (l *Loaded) Valid() bool {
	return l.Graph != nil && len(l.Errors) == 0
}

// Migrated reports whether any migration rewrote the document.
func (l *Loaded) Migrated() bool {
	return len(l.Applied) > 0
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}
