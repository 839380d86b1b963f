package graph

// ChildSuggestion proposes a child node to add under an existing node.
type ChildSuggestion struct {
	Kind     Kind
	Label    string
	Reason   string
	Required bool
}

// childSuggestions lists what each kind is expected to contain.
var childSuggestions = map[Kind][]ChildSuggestion{
	KindContainer: {
		{Kind: KindModule, Label: "Add Module", Reason: "Containers need at least one module", Required: true},
	},
	KindModule: {
		{Kind: KindGroup, Label: "Add Group", Reason: "Modules need at least one group", Required: true},
	},
	KindGroup: {
		{Kind: KindOption, Label: "Add Option", Reason: "Groups should contain options", Required: true},
		{Kind: KindOption, Label: "Add Toggle", Reason: "Consider adding a toggle option", Required: false},
	},
}

// ChildSuggestions returns the children worth adding under id.
//
// A required suggestion is kept while no child of its kind exists; an
// optional one while fewer than two do. Unknown IDs and options yield nil.
func (g *Graph) ChildSuggestions(id string) []ChildSuggestion {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}

	counts := make(map[Kind]int)
	for _, c := range g.outgoing[id] {
		if child, ok := g.nodes[c]; ok {
			counts[child.Kind]++
		}
	}

	var out []ChildSuggestion
	for _, s := range childSuggestions[n.Kind] {
		if s.Required && counts[s.Kind] == 0 {
			out = append(out, s)
		}
		if !s.Required && counts[s.Kind] < 2 {
			out = append(out, s)
		}
	}
	return out
}
