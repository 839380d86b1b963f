// Package nodelink renders configuration graphs as node-link diagrams.
//
// Each node becomes a Graphviz box shaped by its kind and filled by the
// health computed in an [analysis.Report]: green for healthy, amber for
// warnings, red for critical. Options that are not included are drawn with
// a dashed outline.
//
//	report := analysis.AnalyzeGraph(g, table)
//	dot := nodelink.ToDOT(g, report, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT text can also be written out and processed with external
// Graphviz tools. SVG rendering happens in-process through
// [github.com/goccy/go-graphviz].
package nodelink
