package analysis

import (
	"testing"

	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/rules"
)

// builder assembles small configuration graphs for tests.
type builder struct {
	t *testing.T
	g *graph.Graph
}

func newBuilder(t *testing.T) *builder {
	t.Helper()
	return &builder{t: t, g: graph.New()}
}

func (b *builder) node(id string, kind graph.Kind, label string, props graph.Properties) *builder {
	b.t.Helper()
	if err := b.g.AddNode(graph.Node{ID: id, Kind: kind, Label: label, Props: props}); err != nil {
		b.t.Fatalf("AddNode(%s): %v", id, err)
	}
	return b
}

func (b *builder) container(id string) *builder {
	return b.node(id, graph.KindContainer, id, graph.Properties{})
}

func (b *builder) module(id, parent string) *builder {
	b.node(id, graph.KindModule, id, graph.Properties{})
	return b.edge(parent, id)
}

func (b *builder) group(id, parent string) *builder {
	b.node(id, graph.KindGroup, id, graph.Properties{})
	return b.edge(parent, id)
}

// option adds an option keyed by its ID. An empty parent leaves it orphaned.
func (b *builder) option(id, parent string, included bool) *builder {
	b.node(id, graph.KindOption, id, graph.NewProperties(graph.PropKey, id, graph.PropIncluded, included, graph.PropEditable, true))
	if parent == "" {
		return b
	}
	return b.edge(parent, id)
}

func (b *builder) edge(src, dst string) *builder {
	b.t.Helper()
	if src == "" {
		return b
	}
	if err := b.g.AddEdge(graph.Edge{Source: src, Target: dst}); err != nil {
		b.t.Fatalf("AddEdge(%s->%s): %v", src, dst, err)
	}
	return b
}

func (b *builder) build() *graph.Graph { return b.g }

// decoderGraph is the video decoder module used across tests:
//
//	root
//	└── video_decoder
//	    ├── codecs: h264(on) h265 vp9 av1
//	    └── hardware: hw_accel gpu_decode sw_fallback
func decoderGraph(t *testing.T) *builder {
	return newBuilder(t).
		container("root").
		module("video_decoder", "root").
		group("codecs", "video_decoder").
		option("h264", "codecs", true).
		option("h265", "codecs", false).
		option("vp9", "codecs", false).
		option("av1", "codecs", false).
		group("hardware", "video_decoder").
		option("hw_accel", "hardware", false).
		option("gpu_decode", "hardware", false).
		option("sw_fallback", "hardware", false)
}

func decoderRules() *rules.Table {
	return &rules.Table{Modules: []rules.Module{{
		ID:   "video_decoder",
		Name: "Video Decoder",
		Rules: []rules.Rule{
			{Subject: "h265", Requires: []string{"h264"}, Advisory: "H.265 needs H.264 as fallback codec"},
			{Subject: "av1", Requires: []string{"hw_accel"}},
			{Subject: "gpu_decode", Requires: []string{"hw_accel"}, Conflicts: []string{"sw_fallback"}},
			{Subject: "vp9", Requires: []string{"h264"}, Conflicts: []string{"av1"}},
		},
	}}}
}

func include(t *testing.T, g *graph.Graph, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := g.SetIncluded(id, true); err != nil {
			t.Fatalf("SetIncluded(%s): %v", id, err)
		}
	}
}

func issuesWithSeverity(issues []Issue, sev Severity) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Severity == sev {
			out = append(out, is)
		}
	}
	return out
}

func findIssue(issues []Issue, id string) (Issue, bool) {
	for _, is := range issues {
		if is.ID == id {
			return is, true
		}
	}
	return Issue{}, false
}
