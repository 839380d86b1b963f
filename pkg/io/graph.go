package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/graph"
)

type document struct {
	Nodes      []node     `json:"nodes"`
	Edges      []edge     `json:"edges"`
	ExportedAt *time.Time `json:"exported_at,omitempty"`
}

type node struct {
	ID             string           `json:"id"`
	Kind           graph.Kind       `json:"kind"`
	Label          string           `json:"label,omitempty"`
	Description    string           `json:"description,omitempty"`
	Visible        *bool            `json:"visible,omitempty"`
	VisibilityRule string           `json:"visibility_rule,omitempty"`
	Properties     graph.Properties `json:"properties"`
}

type edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// WriteOptions controls [WriteGraph].
type WriteOptions struct {
	// ExportedAt stamps the document; the zero time omits the field.
	ExportedAt time.Time
}

// WriteGraph encodes g as indented JSON. Nodes and edges keep graph order.
func WriteGraph(w io.Writer, g *graph.Graph, opts WriteOptions) error {
	doc := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	if !opts.ExportedAt.IsZero() {
		at := opts.ExportedAt.UTC()
		doc.ExportedAt = &at
	}

	for _, n := range g.Nodes() {
		visible := n.Visible
		doc.Nodes = append(doc.Nodes, node{
			ID:             n.ID,
			Kind:           n.Kind,
			Label:          n.Label,
			Description:    n.Description,
			Visible:        &visible,
			VisibilityRule: n.VisibilityRule,
			Properties:     n.Props,
		})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edge{Source: e.Source, Target: e.Target, Label: e.Label})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from r.
//
// Edges are restored as stored, without hierarchy validation, so that
// imperfect graphs can still be analysed. ReadGraph returns an
// INVALID_FORMAT error for malformed JSON, unknown kinds, duplicate node IDs
// and edges that reference unknown nodes. It does not close r.
func ReadGraph(r io.Reader) (*graph.Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, cterrors.Wrap(cterrors.ErrCodeInvalidFormat, err, "decode graph")
	}

	g := graph.New()
	for _, n := range doc.Nodes {
		if err := cterrors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		visible := true
		if n.Visible != nil {
			visible = *n.Visible
		}
		err := g.AddNode(graph.Node{
			ID:             n.ID,
			Kind:           n.Kind,
			Label:          n.Label,
			Description:    n.Description,
			Visible:        visible,
			VisibilityRule: n.VisibilityRule,
			Props:          n.Properties,
		})
		if err != nil {
			return nil, cterrors.Wrap(cterrors.ErrCodeInvalidFormat, err, "node %s", n.ID)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(graph.Edge{Source: e.Source, Target: e.Target, Label: e.Label}); err != nil {
			return nil, cterrors.Wrap(cterrors.ErrCodeInvalidFormat, err, "edge %s->%s", e.Source, e.Target)
		}
	}
	return g, nil
}

// ImportGraph reads a JSON graph file.
func ImportGraph(path string) (*graph.Graph, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}

// ExportGraph writes g to path, stamping the current time.
func ExportGraph(g *graph.Graph, path string) error {
	if err := cterrors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(f, g, WriteOptions{ExportedAt: time.Now()}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func open(path string) (*os.File, error) {
	if err := cterrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cterrors.Wrap(cterrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
