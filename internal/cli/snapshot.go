package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/graph"
	ctio "github.com/matzehuels/configtower/pkg/io"
	"github.com/matzehuels/configtower/pkg/rules"
)

// snapshot is a graph together with the rule table it is checked against.
type snapshot struct {
	Path  string
	Graph *graph.Graph
	Table *rules.Table
}

// loadSnapshot reads a graph document, or a raw module configuration when
// raw is set. Rules come from --rules when given; raw configurations
// otherwise carry their own. Without either the table is nil and options
// are checked for structure only.
func (c *CLI) loadSnapshot(ctx context.Context, path string, raw bool) (*snapshot, error) {
	if err := cterrors.ValidatePath(path); err != nil {
		return nil, err
	}
	prog := newProgress(loggerFromContext(ctx))
	snap := &snapshot{Path: path}

	if raw {
		cfg, err := ctio.LoadRawConfig(path)
		if err != nil {
			return nil, err
		}
		g, table, err := ctio.ParseConfig(cfg)
		if err != nil {
			return nil, err
		}
		snap.Graph, snap.Table = g, table
	} else {
		g, err := ctio.ImportGraph(path)
		if err != nil {
			return nil, err
		}
		snap.Graph = g
	}

	if rulesPath := c.config().Rules; rulesPath != "" {
		table, err := rules.LoadFile(rulesPath)
		if err != nil {
			return nil, err
		}
		snap.Table = table
	}
	if snap.Table == nil {
		loggerFromContext(ctx).Warn("no rule table given; option rules are not checked")
	}

	prog.done("Loaded " + pluralize(snap.Graph.NodeCount(), "node") + ", " + pluralize(snap.Table.Len(), "rule"))
	return snap, nil
}

// saveGraph writes g to out, or back to in when out is empty. A raw input
// cannot be overwritten with a graph document.
func saveGraph(g *graph.Graph, in, out string, raw bool) (string, error) {
	if out == "" {
		if raw {
			out = graphPathFor(in)
		} else {
			out = in
		}
	}
	if err := cterrors.ValidatePath(out); err != nil {
		return "", err
	}
	return out, ctio.ExportGraph(g, out)
}

// graphPathFor derives "<name>.graph.json" from an input path.
func graphPathFor(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".graph.json"
}

func pluralize(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
