package graph

import (
	"fmt"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
)

// connectionRule is one allowed parent→child pair.
type connectionRule struct {
	source Kind
	target Kind
	reason string
}

// connectionRules lists the only legal structural connections.
var connectionRules = []connectionRule{
	{KindContainer, KindModule, "Containers hold modules"},
	{KindModule, KindGroup, "Modules hold groups"},
	{KindGroup, KindOption, "Groups hold options"},
}

// hierarchyChain names the required nesting for error messages.
const hierarchyChain = "Container → Module → Group → Option"

// Verdict is the outcome of [ValidateConnection].
type Verdict struct {
	Valid   bool
	Message string
}

// IsStructural reports whether source→target is an allowed containment pair.
func IsStructural(source, target Kind) bool {
	return source.Valid() && source.Child() == target
}

// ValidateConnection checks whether an edge from a node of kind source to
// a node of kind target respects the hierarchy.
//
// Checks run in order: allowed pair, reversed pair, same kind, and finally
// a generic hierarchy violation for skipped or unknown levels.
func ValidateConnection(source, target Kind) Verdict {
	for _, r := range connectionRules {
		if r.source == source && r.target == target {
			return Verdict{Valid: true, Message: r.reason}
		}
	}

	for _, r := range connectionRules {
		if r.source == target && r.target == source {
			return Verdict{Message: fmt.Sprintf("Wrong direction: connect %s → %s instead", target, source)}
		}
	}

	if source == target {
		return Verdict{Message: fmt.Sprintf("Cannot connect %s to %s", source, source)}
	}

	return Verdict{Message: fmt.Sprintf("Invalid: %s cannot directly connect to %s. Follow hierarchy: %s", source, target, hierarchyChain)}
}

// UniquenessViolation reports why the edge sourceID→targetID may not be
// added to edges, or false if it may.
//
// An exact duplicate is reported before the more general "already has a
// parent" case, since a duplicate also gives the target a parent.
func UniquenessViolation(sourceID, targetID string, edges []Edge) (string, bool) {
	for _, e := range edges {
		if e.Source == sourceID && e.Target == targetID {
			return "This connection already exists", true
		}
	}
	for _, e := range edges {
		if e.Target == targetID {
			return "This node already has a parent connection", true
		}
	}
	return "", false
}

// Connect adds a structural edge after validating the node kinds and the
// single-parent invariant. A rejected connection leaves the graph unchanged
// and returns a CONNECTION_REJECTED error carrying the validator message.
func (g *Graph) Connect(sourceID, targetID string) error {
	src, ok := g.nodes[sourceID]
	if !ok {
		return cterrors.Wrap(cterrors.ErrCodeNodeNotFound, ErrUnknownSourceNode, "node %q not found", sourceID).WithNode(sourceID)
	}
	dst, ok := g.nodes[targetID]
	if !ok {
		return cterrors.Wrap(cterrors.ErrCodeNodeNotFound, ErrUnknownTargetNode, "node %q not found", targetID).WithNode(targetID)
	}

	if v := ValidateConnection(src.Kind, dst.Kind); !v.Valid {
		return cterrors.Rejected(targetID, v.Message)
	}
	if msg, violated := UniquenessViolation(sourceID, targetID, g.StructuralEdges()); violated {
		return cterrors.Rejected(targetID, msg)
	}

	return g.AddEdge(Edge{Source: sourceID, Target: targetID})
}
