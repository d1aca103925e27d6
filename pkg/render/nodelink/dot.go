package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/shadercomposer/nodegraph/pkg/graph"
	"github.com/shadercomposer/nodegraph/pkg/nodespec"
	"github.com/shadercomposer/nodegraph/pkg/params"
	"github.com/shadercomposer/nodegraph/pkg/render"
)

// DefaultDirection lays the shader pipeline out left to right.
const DefaultDirection = "LR"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed lists resolved parameter values in node labels.
	Detailed bool

	// Direction is the Graphviz rankdir (TB, LR, BT, RL).
	Direction string
}

var categoryColors = map[string]string{
	"input":     "#dbeafe",
	"generator": "#dcfce7",
	"color":     "#fef9c3",
	"math":      "#ede9fe",
	"filter":    "#fce7f3",
	"output":    "#fee2e2",
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Nodes whose type is missing from catalog are drawn with a red outline.
func ToDOT(g *graph.Graph, catalog *nodespec.Catalog, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = DefaultDirection
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.Name)
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range g.Nodes {
		n := &g.Nodes[i]
		spec, known := catalog.Lookup(n.Type)
		label := fmtLabel(n, spec, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(spec, known, label), ", "))
	}

	signals := make(map[string]bool)
	for _, c := range g.Connections {
		if c.FromSignal() && !signals[c.SourceNodeID] {
			signals[c.SourceNodeID] = true
			name := strings.TrimPrefix(c.SourceNodeID, graph.SignalSourcePrefix)
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse, style=\"dashed\"];\n", c.SourceNodeID, name)
		}
	}

	buf.WriteString("\n")
	for _, c := range g.Connections {
		attrs := []string{fmt.Sprintf("label=%q", c.SourcePort+" → "+c.TargetName())}
		if c.TargetsParameter() {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", c.SourceNodeID, c.TargetNodeID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, spec *nodespec.Spec, detailed bool) string {
	label := n.DisplayLabel() + "\n(" + n.Type + ")"
	if !detailed || spec == nil {
		return label
	}

	parts := make([]string, 0, len(spec.Parameters))
	for _, name := range spec.ParameterNames() {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fmtValue(params.Resolve(n, name, spec))))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', 4, 64)
	case []float64:
		parts := make([]string, len(x))
		for i, c := range x {
			parts[i] = strconv.FormatFloat(c, 'g', 3, 64)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprint(x)
	}
}

func fmtAttrs(spec *nodespec.Spec, known bool, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !known {
		return append(attrs, "color=red", "penwidth=2")
	}
	if color, ok := categoryColors[spec.Category]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
