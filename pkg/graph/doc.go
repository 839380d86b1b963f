// Package graph provides the configuration graph model: typed nodes on a
// fixed four-level hierarchy and the directed edges between them.
//
// # Overview
//
// A configuration tree nests Container → Module → Group → Option. Options
// are the leaves that rules talk about; their "key", "included" and
// "editable" properties drive the analysis in the analysis package.
//
// Build a graph with [New], [Graph.AddNode] and either [Graph.Connect]
// (validated, for editing) or [Graph.AddEdge] (raw, for importers):
//
//	g := graph.New()
//	_ = g.AddNode(graph.Node{ID: "root", Kind: graph.KindContainer})
//	_ = g.AddNode(graph.Node{ID: "video", Kind: graph.KindModule})
//	if err := g.Connect("root", "video"); err != nil {
//	    // CONNECTION_REJECTED with a user-facing message
//	}
//
// # Edges
//
// Storage does not tag edges as structural or semantic. An edge is
// structural when its endpoint kinds form an allowed parent→child pair
// ([IsStructural]); anything else, such as the "requires" links the
// importer adds between options, is ignored by containment queries.
//
// # Connection Rules
//
// [ValidateConnection] checks a proposed pair of kinds and explains the
// verdict. [UniquenessViolation] enforces the single-parent invariant over a
// list of existing edges. [Graph.Connect] applies both and leaves the graph
// untouched when either rejects.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Read-only access
// from several goroutines is fine, which is what concurrent analysis relies on.
package graph
