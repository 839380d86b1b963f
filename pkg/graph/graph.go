package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidKind is returned when a node kind is not one of the four
	// hierarchy levels.
	ErrInvalidKind = errors.New("invalid node kind")

	// ErrUnknownNode is returned by mutators when the node ID does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNotOption is returned by [Graph.SetIncluded] for non-option nodes.
	ErrNotOption = errors.New("node is not an option")
)

// Node is one configuration element.
//
// Option nodes carry their rule-matching identity in Props: "key",
// "included" and "editable" (see [PropKey], [PropIncluded], [PropEditable]).
type Node struct {
	ID             string
	Kind           Kind
	Label          string
	Description    string
	Visible        bool
	VisibilityRule string // opaque, never evaluated
	Props          Properties
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Key returns the option key, or "" if unset.
func (n *Node) Key() string {
	k, _ := n.Props.String(PropKey)
	return k
}

// Included reports whether properties.included is exactly true.
func (n *Node) Included() bool {
	b, ok := n.Props.Bool(PropIncluded)
	return ok && b
}

// Locked reports whether properties.editable is explicitly false.
func (n *Node) Locked() bool {
	b, ok := n.Props.Bool(PropEditable)
	return ok && !b
}

// clone returns a deep copy of the node.
func (n *Node) clone() *Node {
	c := *n
	c.Props = n.Props.Clone()
	return &c
}

// Edge is a directed link between two node IDs. Structural edges encode
// parent→child containment; other edges (for example "requires" links
// between options) are semantic. Storage does not distinguish the two.
type Edge struct {
	Source string
	Target string
	Label  string // optional, e.g. "requires"
}

// Graph holds configuration nodes and the edges between them.
//
// Nodes keep insertion order, which is also the resolution order for
// option keys that appear more than once. Graph is not safe for concurrent
// mutation; analysis passes only read it.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string // nodeID -> target IDs
	incoming map[string][]string // nodeID -> source IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node. Returns ErrInvalidNodeID for an empty ID,
// ErrDuplicateNodeID if the ID is taken, and ErrInvalidKind for a kind
// outside the hierarchy.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if !n.Kind.Valid() {
		return ErrInvalidKind
	}
	node := &n
	g.nodes[n.ID] = node
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes without any
// hierarchy validation. Importers use it to restore stored graphs; editing
// code should call [Graph.Connect] instead.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e.Target)
	g.incoming[e.Target] = append(g.incoming[e.Target], e.Source)
	return nil
}

// RemoveEdge removes the first edge source→target if it exists.
func (g *Graph) RemoveEdge(source, target string) {
	idx := slices.IndexFunc(g.edges, func(e Edge) bool { return e.Source == source && e.Target == target })
	if idx < 0 {
		return
	}
	g.edges = slices.Delete(g.edges, idx, idx+1)
	g.outgoing[source] = removeFirst(g.outgoing[source], target)
	g.incoming[target] = removeFirst(g.incoming[target], source)
}

// RemoveNode deletes a node together with every incident edge.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.Source == id || e.Target == id })

	for _, t := range g.outgoing[id] {
		g.incoming[t] = slices.DeleteFunc(g.incoming[t], func(s string) bool { return s == id })
	}
	for _, s := range g.incoming[id] {
		g.outgoing[s] = slices.DeleteFunc(g.outgoing[s], func(t string) bool { return t == id })
	}
	delete(g.outgoing, id)
	delete(g.incoming, id)
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the stored node.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the targets of all outgoing edges of id, structural or not.
// The returned slice must not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of all incoming edges of id.
// The returned slice must not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// IsStructuralEdge reports whether e connects an allowed parent→child pair.
// Edges with unknown endpoints are not structural.
func (g *Graph) IsStructuralEdge(e Edge) bool {
	src, okS := g.nodes[e.Source]
	dst, okD := g.nodes[e.Target]
	return okS && okD && IsStructural(src.Kind, dst.Kind)
}

// StructuralEdges returns the edges that encode containment.
func (g *Graph) StructuralEdges() []Edge {
	var out []Edge
	for _, e := range g.edges {
		if g.IsStructuralEdge(e) {
			out = append(out, e)
		}
	}
	return out
}

// SetProperty sets a property on an existing node.
func (g *Graph) SetProperty(id, key string, v any) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	return n.Props.Set(key, v)
}

// SetIncluded sets the "included" flag of an option node.
func (g *Graph) SetIncluded(id string, included bool) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if n.Kind != KindOption {
		return ErrNotOption
	}
	return n.Props.Set(PropIncluded, included)
}

// Clone returns a deep copy; mutations of the copy never affect g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:    make(map[string]*Node, len(g.nodes)),
		order:    slices.Clone(g.order),
		edges:    slices.Clone(g.edges),
		outgoing: make(map[string][]string, len(g.outgoing)),
		incoming: make(map[string][]string, len(g.incoming)),
	}
	for id, n := range g.nodes {
		c.nodes[id] = n.clone()
	}
	for id, ts := range g.outgoing {
		c.outgoing[id] = slices.Clone(ts)
	}
	for id, ss := range g.incoming {
		c.incoming[id] = slices.Clone(ss)
	}
	return c
}

func removeFirst(ids []string, id string) []string {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
