package analysis

import (
	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/rules"
)

// ConflictPair is an unordered pair of conflicting option node IDs,
// stored with A < B.
type ConflictPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

func newConflictPair(x, y string) ConflictPair {
	if y < x {
		x, y = y, x
	}
	return ConflictPair{A: x, B: y}
}

// Report is the whole-graph analysis result.
//
// TotalConflicts is the raw sum of every node's conflict list, so a pair
// declared from both sides counts twice. ConflictPairs holds each pair once.
type Report struct {
	ByNode         map[string]NodeAnalysis `json:"by_node"`
	Order          []string                `json:"order"`
	TotalIssues    int                     `json:"total_issues"`
	TotalConflicts int                     `json:"total_conflicts"`
	ConflictPairs  []ConflictPair          `json:"conflict_pairs"`
}

// AnalyzeGraph runs [Index.AnalyzeNode] once per node and aggregates the
// totals. Nodes are visited in graph order.
func AnalyzeGraph(g *graph.Graph, table *rules.Table) Report {
	x := NewIndex(g)
	nodes := g.Nodes()
	results := make([]NodeAnalysis, len(nodes))
	for i, n := range nodes {
		results[i] = x.AnalyzeNode(n.ID, table)
	}
	return aggregate(results)
}

func aggregate(results []NodeAnalysis) Report {
	r := Report{
		ByNode:        make(map[string]NodeAnalysis, len(results)),
		Order:         make([]string, 0, len(results)),
		ConflictPairs: []ConflictPair{},
	}
	seen := make(map[ConflictPair]bool)
	for _, a := range results {
		r.ByNode[a.NodeID] = a
		r.Order = append(r.Order, a.NodeID)
		r.TotalIssues += len(a.Issues)
		r.TotalConflicts += len(a.Conflicts)

		for _, c := range a.Conflicts {
			p := newConflictPair(a.NodeID, c.NodeID)
			if !seen[p] {
				seen[p] = true
				r.ConflictPairs = append(r.ConflictPairs, p)
			}
		}
	}
	return r
}

// Get returns the analysis for id, or an empty healthy analysis.
func (r Report) Get(id string) NodeAnalysis {
	if a, ok := r.ByNode[id]; ok {
		return a
	}
	return emptyAnalysis(id)
}

// Analyses returns the per-node results in graph order.
func (r Report) Analyses() []NodeAnalysis {
	out := make([]NodeAnalysis, 0, len(r.Order))
	for _, id := range r.Order {
		out = append(out, r.ByNode[id])
	}
	return out
}

// Counts tallies issues and suggestions by severity.
func (r Report) Counts() map[Severity]int {
	out := make(map[Severity]int, len(Severities))
	for _, a := range r.ByNode {
		for _, is := range a.Issues {
			out[is.Severity]++
		}
		for _, is := range a.Suggestions {
			out[is.Severity]++
		}
	}
	return out
}

// Health returns the worst node health in the report.
func (r Report) Health() Health {
	h := HealthHealthy
	for _, a := range r.ByNode {
		if a.Health.Worse(h) {
			h = a.Health
		}
	}
	return h
}

// Issue returns the first issue with the given ID in graph order.
func (r Report) Issue(id string) (Issue, bool) {
	for _, nid := range r.Order {
		for _, is := range r.ByNode[nid].Issues {
			if is.ID == id {
				return is, true
			}
		}
	}
	return Issue{}, false
}

// Fixes returns the fixable issues in graph order. An issue ID reported by
// several nodes appears once.
func (r Report) Fixes() []Issue {
	var out []Issue
	seen := make(map[string]bool)
	for _, nid := range r.Order {
		for _, is := range r.ByNode[nid].Issues {
			if is.Fix == nil || seen[is.ID] {
				continue
			}
			seen[is.ID] = true
			out = append(out, is)
		}
	}
	return out
}
