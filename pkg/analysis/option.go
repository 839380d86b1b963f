package analysis

import (
	"fmt"
	"slices"

	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/rules"
)

// analyzeOption cross-references the rule table. Options without a key,
// or calls without a table, produce no diagnostics here.
func (x *Index) analyzeOption(n *graph.Node, table *rules.Table, a *NodeAnalysis) {
	key := n.Key()
	if key == "" || table == nil {
		return
	}

	scope := x.SiblingScope(n.ID)
	label := n.DisplayLabel()

	for r := range table.Rules() {
		if r.Subject == key {
			x.checkRequires(n, key, label, r, scope, a)
			x.checkConflicts(n, key, label, r, scope, a)
		}
		if slices.Contains(r.Requires, key) {
			x.checkRequiredBy(n, key, r, scope, a)
		}
	}

	if n.Included() {
		a.Suggestions = append(a.Suggestions, Issue{
			ID:              "ai_dep_chain_" + n.ID,
			Severity:        SeveritySuggestion,
			Title:           "🤖 Dependency Chain Analysis",
			Message:         fmt.Sprintf("This option is active. The rule engine has checked %d dependencies and %d potential conflicts.", len(a.Dependencies), len(a.Conflicts)),
			AffectedNodeIDs: []string{n.ID},
		})
	}
	if n.Locked() {
		a.Suggestions = append(a.Suggestions, Issue{
			ID:              "ai_locked_" + n.ID,
			Severity:        SeverityInfo,
			Title:           "🔒 Locked Option",
			Message:         "This option is not user-editable. It's controlled by system rules or admin configuration.",
			AffectedNodeIDs: []string{n.ID},
		})
	}
}

// checkRequires records one dependency per required key. A requirement is
// satisfied only by an included option inside the sibling scope. The
// dependency names an out-of-scope option with the key for reference, but
// the enable fix only ever targets an in-scope one.
func (x *Index) checkRequires(n *graph.Node, key, label string, r rules.Rule, scope Scope, a *NodeAnalysis) {
	for _, req := range r.Requires {
		target, found := x.Resolve(req, scope)
		inScope := found && scope.Contains(target.ID)
		dep := Dependency{Key: req, Label: req}
		if found {
			dep.Label = target.DisplayLabel()
			dep.NodeID = target.ID
			dep.Present = inScope && target.Included()
		}
		a.Dependencies = append(a.Dependencies, dep)
		if dep.Present {
			continue
		}

		msg := r.Advisory
		if msg == "" {
			msg = fmt.Sprintf(`"%s" requires "%s" to be enabled.`, label, req)
		}
		issue := Issue{
			ID:              fmt.Sprintf("missing_dep_%s_%s", key, req),
			Severity:        SeverityError,
			Title:           "Missing Dependency: " + req,
			Message:         msg,
			AffectedNodeIDs: []string{n.ID},
		}
		if inScope {
			issue.AffectedNodeIDs = append(issue.AffectedNodeIDs, target.ID)
			issue.Fix = &Fix{Label: "Enable " + req, Action: ActionEnable, TargetID: target.ID, Key: req}
		}
		a.Issues = append(a.Issues, issue)
	}
}

// checkConflicts flags every in-scope conflicting option that is currently
// included, whether or not n itself is.
func (x *Index) checkConflicts(n *graph.Node, key, label string, r rules.Rule, scope Scope, a *NodeAnalysis) {
	for _, ck := range r.Conflicts {
		target, found := x.ResolveInScope(ck, scope)
		if !found || !target.Included() {
			continue
		}
		other := target.DisplayLabel()
		a.Conflicts = append(a.Conflicts, Conflict{
			Key:           ck,
			Label:         other,
			ConflictsWith: key,
			NodeID:        target.ID,
		})

		msg := r.Advisory
		if msg == "" {
			msg = fmt.Sprintf(`"%s" conflicts with "%s". They cannot both be active.`, label, other)
		}
		a.Issues = append(a.Issues, Issue{
			ID:              fmt.Sprintf("conflict_%s_%s", key, ck),
			Severity:        SeverityError,
			Title:           fmt.Sprintf("Conflict: %s ⚡ %s", label, other),
			Message:         msg,
			AffectedNodeIDs: []string{n.ID, target.ID},
			Fix:             &Fix{Label: "Disable " + ck, Action: ActionDisable, TargetID: target.ID, Key: ck},
		})
	}
}

// checkRequiredBy warns when an included option in the same scope depends
// on n while n is left off. This direction never carries a fix.
func (x *Index) checkRequiredBy(n *graph.Node, key string, r rules.Rule, scope Scope, a *NodeAnalysis) {
	dependent, found := x.ResolveInScope(r.Subject, scope)
	if !found || !dependent.Included() || n.Included() {
		return
	}
	a.Issues = append(a.Issues, Issue{
		ID:              fmt.Sprintf("needed_by_%s_%s", key, r.Subject),
		Severity:        SeverityWarning,
		Title:           "Required By: " + r.Subject,
		Message:         fmt.Sprintf(`"%s" depends on this option. Disabling it may break the dependency chain.`, dependent.DisplayLabel()),
		AffectedNodeIDs: []string{n.ID, dependent.ID},
	})
}
