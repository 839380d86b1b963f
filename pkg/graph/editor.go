package graph

import (
	"strconv"
	"strings"
)

// nodeIDPrefix is the prefix of generated node IDs.
const nodeIDPrefix = "node_"

// NextID returns the ID a newly created node should get: "node_N" where N
// is one past the largest numeric suffix among existing "node_" IDs.
// IDs that do not follow the pattern are ignored.
func (g *Graph) NextID() string {
	hi := 0
	for id := range g.nodes {
		rest, ok := strings.CutPrefix(id, nodeIDPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n > hi {
			hi = n
		}
	}
	return nodeIDPrefix + strconv.Itoa(hi+1)
}

// NewNode appends a blank node of the given kind, labelled "New <Kind>",
// and returns its generated ID.
func (g *Graph) NewNode(kind Kind) (string, error) {
	id := g.NextID()
	err := g.AddNode(Node{
		ID:      id,
		Kind:    kind,
		Label:   "New " + kind.Label(),
		Visible: true,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// SetLabel sets the label of an existing node.
func (g *Graph) SetLabel(id, label string) error {
	return g.update(id, func(n *Node) { n.Label = label })
}

// SetDescription sets the description of an existing node.
func (g *Graph) SetDescription(id, desc string) error {
	return g.update(id, func(n *Node) { n.Description = desc })
}

// SetVisible sets the visibility flag of an existing node.
func (g *Graph) SetVisible(id string, visible bool) error {
	return g.update(id, func(n *Node) { n.Visible = visible })
}

// SetVisibilityRule stores an opaque visibility expression on a node.
func (g *Graph) SetVisibilityRule(id, rule string) error {
	return g.update(id, func(n *Node) { n.VisibilityRule = rule })
}

// DeleteProperty removes a property from an existing node. Removing a
// property the node does not have is a no-op.
func (g *Graph) DeleteProperty(id, key string) error {
	return g.update(id, func(n *Node) { n.Props.Delete(key) })
}

func (g *Graph) update(id string, fn func(*Node)) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	fn(n)
	return nil
}
