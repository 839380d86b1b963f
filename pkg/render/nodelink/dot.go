package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/configtower/pkg/analysis"
	"github.com/matzehuels/configtower/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node kind and issue counts to each label.
	Detailed bool

	// Direction is the Graphviz rankdir ("TB" or "LR"). Empty means "TB".
	Direction string

	// HideRules omits non-structural edges such as "requires" links.
	HideRules bool
}

var healthFill = map[analysis.Health]string{
	analysis.HealthHealthy:  "#d9f2d9",
	analysis.HealthWarning:  "#ffe9b3",
	analysis.HealthCritical: "#f7c6c6",
}

var healthBorder = map[analysis.Health]string{
	analysis.HealthHealthy:  "#2e7d32",
	analysis.HealthWarning:  "#b26a00",
	analysis.HealthCritical: "#c62828",
}

var kindShape = map[graph.Kind]string{
	graph.KindContainer: "folder",
	graph.KindModule:    "component",
	graph.KindGroup:     "tab",
	graph.KindOption:    "box",
}

// ToDOT converts a configuration graph to Graphviz DOT, colouring each node
// by the health recorded in report. The result can be rendered with
// [RenderSVG].
//
// Excluded options are drawn dashed and greyed. Structural edges are solid;
// other edges are dashed and carry their label.
func ToDOT(g *graph.Graph, report analysis.Report, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fontsize=14, fontname=\"Helvetica\", margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#555555\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		a := report.Get(n.ID)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, a, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if g.IsStructuralEdge(e) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		if opts.HideRules {
			continue
		}
		attrs := []string{"style=dashed", "constraint=false", `color="#1565c0"`, `fontcolor="#1565c0"`}
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *graph.Node, a analysis.NodeAnalysis, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	parts := []string{label, n.Kind.Label()}
	if k := n.Key(); k != "" {
		parts = append(parts, "key: "+k)
	}
	if len(a.Issues) > 0 {
		parts = append(parts, fmt.Sprintf("issues: %d", len(a.Issues)))
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n *graph.Node, a analysis.NodeAnalysis, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, a, detailed)),
		fmt.Sprintf("shape=%s", kindShape[n.Kind]),
		fmt.Sprintf("fillcolor=%q", healthFill[a.Health]),
		fmt.Sprintf("color=%q", healthBorder[a.Health]),
	}
	if n.Kind == graph.KindOption && !n.Included() {
		attrs = append(attrs, `style="rounded,filled,dashed"`, `fontcolor="#777777"`)
	}
	if n.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Description))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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

// normalizeViewBox rewrites the root element so the SVG scales from its
// viewBox alone, dropping Graphviz's point-based width and height.
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
