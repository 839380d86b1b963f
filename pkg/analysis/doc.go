// Package analysis computes diagnostics for configuration graphs.
//
// # Overview
//
// Analysis is a pure function of a graph snapshot and a rule table. Every
// node gets a [NodeAnalysis] with blocking issues, advisory suggestions,
// the dependencies and conflicts checked for it, and a [Health] derived
// from the worst blocking issue:
//
//	a := analysis.AnalyzeNode(g, "av1", table)
//	if a.Health == analysis.HealthCritical { ... }
//
//	report := analysis.AnalyzeGraph(g, table)
//	fmt.Println(report.TotalIssues, report.TotalConflicts)
//
// # Checks
//
// Every node except a container must have a structural parent or it is
// reported as an orphan. Containers should hold modules, modules need
// groups, and groups should hold options with at least one included by
// default.
//
// Options are checked against the rule table. A required key is satisfied
// only by an included option in the same module (its sibling scope). A
// conflicting key is reported whenever the conflicting option is included.
// Options that another included option depends on are warned about while
// they are off. Missing dependencies and conflicts carry a [Fix] when the
// target option exists.
//
// # Scope Resolution
//
// Keys resolve to the in-scope option first and to the first option in
// graph order otherwise. An option without an enclosing module has an
// empty scope, so none of its requirements can be satisfied.
//
// # Concurrency
//
// [AnalyzeGraphConcurrent] spreads node analyses over a bounded worker pool
// and returns the same [Report] as [AnalyzeGraph].
package analysis
