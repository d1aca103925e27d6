// Package render turns node graphs into pictures.
//
// # Overview
//
// The [nodelink] subpackage draws a graph as a Graphviz diagram with one box
// per node and one arrow per connection. This package holds the format
// conversion shared by renderers.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Dependencies
//
// PDF and PNG output require librsvg:
//
//	brew install librsvg        # macOS
//	apt install librsvg2-bin    # Debian/Ubuntu
package render
