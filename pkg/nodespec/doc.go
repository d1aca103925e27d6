// Package nodespec defines the read-only node-type schema a host supplies to
// the graph core.
//
// A [Spec] describes one node type: its typed input and output ports and its
// declared parameters with default values and optional numeric ranges. A
// [Catalog] indexes specs by id and is what validation, parameter resolution
// and deserialization consume. The core never mutates a catalog.
//
// # Loading
//
// Catalogs are plain lists of specs in JSON or YAML:
//
//	- id: noise
//	  inputs:  [{name: in, type: vec2}]
//	  outputs: [{name: out, type: float}]
//	  parameters:
//	    noiseScale: {type: float, default: 1, min: 0, max: 10}
//
// Use [LoadFile] for a catalog on disk or [Builtin] for the catalog embedded
// in this package.
package nodespec
