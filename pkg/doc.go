// Package pkg holds the libraries behind configtower, a rule engine for
// hierarchical configuration graphs.
//
// # Overview
//
// A configuration is a tree of Container → Module → Group → Option nodes.
// Options carry a key and an "included" flag; a rule table declares which
// option keys require or conflict with which others. The packages are:
//
//  1. [graph] - Nodes, edges, the connection validator and editing helpers
//  2. [rules] - The rule table and its TOML/JSON loaders
//  3. [analysis] - Per-node and whole-graph diagnostics
//  4. [fix] - Applying the enable/disable remediations attached to issues
//  5. [io] - Graph JSON and the raw module configuration format
//  6. [pipeline] - Cached analysis and diagram rendering
//  7. [render/nodelink] - Graphviz DOT and SVG output
//  8. [cache], [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Data Flow
//
//	raw module config ──► [io.ParseConfig] ──► graph + rule table
//	                                               │
//	                            [analysis.AnalyzeGraph]
//	                                               │
//	                           report ──► [fix.ApplyAll] ──► fixed graph
//	                              │
//	                    [render/nodelink] ──► DOT / SVG
//
// # Quick Start
//
//	cfg, _ := io.LoadRawConfig("streaming.json")
//	g, table, _ := io.ParseConfig(cfg)
//
//	report := analysis.AnalyzeGraph(g, table)
//	for _, is := range report.Fixes() {
//	    fmt.Println(is.ID, is.Fix.Label)
//	}
//
//	fixed, _, _ := fix.ApplyAll(g, report)
//	_ = io.ExportGraph(fixed, "streaming.graph.json")
package pkg
