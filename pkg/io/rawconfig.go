package io

import (
	"encoding/json"
	"fmt"
	"io"

	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/rules"
)

// RawConfig is the editor's import format: modules holding groups of
// options, plus each module's rules and state machine.
type RawConfig struct {
	Modules []RawModule `json:"modules"`
}

// RawModule is one configuration module.
type RawModule struct {
	ID      string                       `json:"id"`
	Name    string                       `json:"name"`
	Initial string                       `json:"initial"`
	Groups  []RawGroup                   `json:"groups"`
	Rules   []rules.Rule                 `json:"rules"`
	States  map[string]map[string]string `json:"states"` // state -> event -> next state
}

// RawGroup is a named list of options.
type RawGroup struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Options []RawOption `json:"options"`
}

// RawOption is a single toggle.
type RawOption struct {
	ID       int    `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Editable bool   `json:"editable"`
	Included bool   `json:"included"`
}

// RuleEdgeLabel marks edges that link a required option to its dependent.
const RuleEdgeLabel = "requires"

// ReadRawConfig decodes a raw configuration from r.
func ReadRawConfig(r io.Reader) (*RawConfig, error) {
	var cfg RawConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, cterrors.Wrap(cterrors.ErrCodeInvalidFormat, err, "decode raw config")
	}
	return &cfg, nil
}

// LoadRawConfig reads a raw configuration file.
func LoadRawConfig(path string) (*RawConfig, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRawConfig(f)
}

// Table extracts the rule table declared by the configuration's modules.
func (c *RawConfig) Table() *rules.Table {
	t := &rules.Table{Modules: make([]rules.Module, 0, len(c.Modules))}
	for _, m := range c.Modules {
		t.Modules = append(t.Modules, rules.Module{ID: m.ID, Name: m.Name, Rules: m.Rules})
	}
	return t
}

// ParseConfig builds a graph and its rule table from a raw configuration.
//
// Nodes get sequential IDs ("node_1" is the root container). Every rule's
// requirement adds a "requires" edge from the required option to the
// dependent option when both keys exist in the same module. The rule table
// is validated before anything is built.
func ParseConfig(cfg *RawConfig) (*graph.Graph, *rules.Table, error) {
	table := cfg.Table()
	if err := table.Validate(); err != nil {
		return nil, nil, err
	}

	p := &parser{g: graph.New()}
	root := p.add(graph.KindContainer, "Configuration Root", "Root container for all modules",
		"moduleCount", len(cfg.Modules))

	for _, m := range cfg.Modules {
		mod := p.add(graph.KindModule, m.Name, fmt.Sprintf("ID: %s | Initial state: %s", m.ID, m.Initial),
			"moduleId", m.ID,
			"initial", m.Initial,
			"rulesCount", len(m.Rules),
			"statesCount", len(m.States))
		p.link(root, mod, "")

		keyToNode := make(map[string]string)
		for _, grp := range m.Groups {
			gid := p.add(graph.KindGroup, grp.Name, fmt.Sprintf("%d option(s)", len(grp.Options)),
				"groupId", grp.ID,
				"optionCount", len(grp.Options))
			p.link(mod, gid, "")

			for _, opt := range grp.Options {
				desc := "Not included"
				if opt.Included {
					desc = "Included"
				}
				oid := p.add(graph.KindOption, opt.Name, desc,
					graph.PropKey, opt.Key,
					graph.PropEditable, opt.Editable,
					graph.PropIncluded, opt.Included,
					"optionId", opt.ID)
				p.link(gid, oid, "")
				keyToNode[opt.Key] = oid
			}
		}

		for _, r := range m.Rules {
			dependent, ok := keyToNode[r.Subject]
			if !ok {
				continue
			}
			for _, req := range r.Requires {
				if required, ok := keyToNode[req]; ok {
					p.link(required, dependent, RuleEdgeLabel)
				}
			}
		}
	}

	if p.err != nil {
		return nil, nil, cterrors.Wrap(cterrors.ErrCodeInternal, p.err, "build graph")
	}
	return p.g, table, nil
}

// parser assigns node IDs and remembers the first error, so the build
// loop stays linear.
type parser struct {
	g    *graph.Graph
	next int
	err  error
}

func (p *parser) add(kind graph.Kind, label, desc string, props ...any) string {
	p.next++
	id := fmt.Sprintf("node_%d", p.next)
	if p.err != nil {
		return id
	}
	var pr graph.Properties
	for i := 0; i+1 < len(props); i += 2 {
		if err := pr.Set(props[i].(string), props[i+1]); err != nil {
			p.err = err
			return id
		}
	}
	p.err = p.g.AddNode(graph.Node{ID: id, Kind: kind, Label: label, Description: desc, Visible: true, Props: pr})
	return id
}

func (p *parser) link(src, dst, label string) {
	if p.err != nil {
		return
	}
	p.err = p.g.AddEdge(graph.Edge{Source: src, Target: dst, Label: label})
}
