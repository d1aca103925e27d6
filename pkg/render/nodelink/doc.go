// Package nodelink renders node graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz. Each
// node is a box labelled with its display label and node type, and each
// connection is an arrow from the source port to the target. Connections
// into parameters are drawn dashed. Host signal sources such as audio bands
// appear as ellipses.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, catalog, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels list resolved parameter values
//   - Direction: Graphviz rankdir, "LR" when empty
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
