package analysis

import (
	"github.com/matzehuels/configtower/pkg/graph"
)

// maxAncestorDepth bounds the walk from an option to its module. A
// well-formed tree needs two steps (option → group → module).
const maxAncestorDepth = 3

// Index is a read-only view of a graph snapshot built once per analysis
// pass. It answers parent, child and key lookups without rescanning edges.
//
// Only structural edges (see [graph.IsStructural]) contribute to parent and
// child relations.
type Index struct {
	g        *graph.Graph
	parent   map[string]string
	children map[string][]string
	byKey    map[string][]string
}

// NewIndex builds an index over g. The graph must not be mutated while
// the index is in use.
func NewIndex(g *graph.Graph) *Index {
	x := &Index{
		g:        g,
		parent:   make(map[string]string),
		children: make(map[string][]string),
		byKey:    make(map[string][]string),
	}

	for _, n := range g.Nodes() {
		seen := make(map[string]bool)
		for _, p := range g.Parents(n.ID) {
			pn, ok := g.Node(p)
			if !ok || seen[p] || !graph.IsStructural(pn.Kind, n.Kind) {
				continue
			}
			seen[p] = true
			if _, has := x.parent[n.ID]; !has {
				x.parent[n.ID] = p
			}
			x.children[p] = append(x.children[p], n.ID)
		}

		if n.Kind == graph.KindOption {
			if k := n.Key(); k != "" {
				x.byKey[k] = append(x.byKey[k], n.ID)
			}
		}
	}
	return x
}

// Graph returns the indexed graph.
func (x *Index) Graph() *graph.Graph { return x.g }

// Node returns the node with the given ID.
func (x *Index) Node(id string) (*graph.Node, bool) { return x.g.Node(id) }

// HasParent reports whether id has an incoming structural edge.
func (x *Index) HasParent(id string) bool {
	_, ok := x.parent[id]
	return ok
}

// Parent returns the structural parent of id.
func (x *Index) Parent(id string) (*graph.Node, bool) {
	p, ok := x.parent[id]
	if !ok {
		return nil, false
	}
	return x.g.Node(p)
}

// Children returns the structural children of id in graph order.
func (x *Index) Children(id string) []*graph.Node {
	ids := x.children[id]
	out := make([]*graph.Node, 0, len(ids))
	for _, c := range ids {
		if n, ok := x.g.Node(c); ok {
			out = append(out, n)
		}
	}
	return out
}

// EnclosingModule walks up from id to the first Module ancestor.
func (x *Index) EnclosingModule(id string) (*graph.Node, bool) {
	cur := id
	for range maxAncestorDepth {
		p, ok := x.Parent(cur)
		if !ok {
			return nil, false
		}
		if p.Kind == graph.KindModule {
			return p, true
		}
		cur = p.ID
	}
	return nil, false
}

// Scope is the set of options an option's rules resolve against.
type Scope struct {
	ids   []string
	index map[string]bool
}

// Contains reports whether the option with the given ID is in scope.
func (s Scope) Contains(id string) bool { return s.index[id] }

// IDs returns the in-scope option IDs in module → group → option order.
func (s Scope) IDs() []string { return s.ids }

// Len returns the number of in-scope options.
func (s Scope) Len() int { return len(s.ids) }

// SiblingScope returns every option under every group of the module that
// encloses id. Without an enclosing module the scope is empty, so lookups
// through it fail closed.
func (x *Index) SiblingScope(id string) Scope {
	s := Scope{index: make(map[string]bool)}
	mod, ok := x.EnclosingModule(id)
	if !ok {
		return s
	}
	for _, grp := range x.Children(mod.ID) {
		for _, opt := range x.Children(grp.ID) {
			if !s.index[opt.ID] {
				s.index[opt.ID] = true
				s.ids = append(s.ids, opt.ID)
			}
		}
	}
	return s
}

// Resolve finds the option with key. An in-scope match wins; otherwise the
// first option in graph order with that key is returned. Callers that act
// on the result must check [Scope.Contains] or use [Index.ResolveInScope].
func (x *Index) Resolve(key string, scope Scope) (*graph.Node, bool) {
	if n, ok := x.ResolveInScope(key, scope); ok {
		return n, true
	}
	ids := x.byKey[key]
	if len(ids) == 0 {
		return nil, false
	}
	return x.g.Node(ids[0])
}

// ResolveInScope finds the first in-scope option with key. Options with
// the key outside scope never match, and an empty scope matches nothing.
func (x *Index) ResolveInScope(key string, scope Scope) (*graph.Node, bool) {
	for _, id := range x.byKey[key] {
		if scope.Contains(id) {
			return x.g.Node(id)
		}
	}
	return nil, false
}
