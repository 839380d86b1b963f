// Package fix applies the remediations attached to analysis issues.
//
// Fixes never mutate their input: each call returns a modified clone, and
// callers re-run analysis on the result.
package fix

import (
	"github.com/matzehuels/configtower/pkg/analysis"
	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/graph"
)

// Apply returns a copy of g with f applied: the target option's
// "included" flag is set to true for enable and false for disable.
func Apply(g *graph.Graph, f analysis.Fix) (*graph.Graph, error) {
	out := g.Clone()
	if err := apply(out, f); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyAll applies every fix in the report to a single copy of g, in report
// order. The first fix seen for a target wins; later fixes for the same
// target are skipped. It returns the fixes that were applied.
func ApplyAll(g *graph.Graph, r analysis.Report) (*graph.Graph, []analysis.Fix, error) {
	out := g.Clone()
	var applied []analysis.Fix
	done := make(map[string]bool)
	for _, is := range r.Fixes() {
		f := *is.Fix
		if done[f.TargetID] {
			continue
		}
		if err := apply(out, f); err != nil {
			return nil, nil, cterrors.Wrap(cterrors.GetCode(err), err, "apply fix for %s", is.ID)
		}
		done[f.TargetID] = true
		applied = append(applied, f)
	}
	return out, applied, nil
}

func apply(g *graph.Graph, f analysis.Fix) error {
	n, ok := g.Node(f.TargetID)
	if !ok {
		return cterrors.New(cterrors.ErrCodeNodeNotFound, "fix target %q not found", f.TargetID)
	}
	if n.Kind != graph.KindOption {
		return cterrors.New(cterrors.ErrCodeInvalidInput, "fix target %q is a %s, not an option", f.TargetID, n.Kind)
	}

	var included bool
	switch f.Action {
	case analysis.ActionEnable:
		included = true
	case analysis.ActionDisable:
		included = false
	default:
		return cterrors.New(cterrors.ErrCodeInvalidInput, "unknown fix action %q", f.Action)
	}
	return g.SetIncluded(f.TargetID, included)
}
