package fix

import (
	"testing"

	"github.com/matzehuels/configtower/pkg/analysis"
	cterrors "github.com/matzehuels/configtower/pkg/errors"
	"github.com/matzehuels/configtower/pkg/graph"
	"github.com/matzehuels/configtower/pkg/rules"
)

func decoder(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	add := func(n graph.Node) {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	opt := func(id string, included bool) graph.Node {
		return graph.Node{ID: id, Kind: graph.KindOption, Label: id, Props: graph.NewProperties(graph.PropKey, id, graph.PropIncluded, included)}
	}
	add(graph.Node{ID: "root", Kind: graph.KindContainer})
	add(graph.Node{ID: "dec", Kind: graph.KindModule})
	add(graph.Node{ID: "hw", Kind: graph.KindGroup})
	add(opt("hw_accel", false))
	add(opt("gpu_decode", true))
	add(opt("sw_fallback", true))
	for _, e := range [][2]string{{"root", "dec"}, {"dec", "hw"}, {"hw", "hw_accel"}, {"hw", "gpu_decode"}, {"hw", "sw_fallback"}} {
		if err := g.Connect(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

var decoderTable = &rules.Table{Modules: []rules.Module{{ID: "dec", Rules: []rules.Rule{
	{Subject: "gpu_decode", Requires: []string{"hw_accel"}, Conflicts: []string{"sw_fallback"}},
}}}}

func included(g *graph.Graph, id string) bool {
	n, _ := g.Node(id)
	return n.Included()
}

func TestApply(t *testing.T) {
	g := decoder(t)

	out, err := Apply(g, analysis.Fix{Action: analysis.ActionEnable, TargetID: "hw_accel"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !included(out, "hw_accel") {
		t.Error("hw_accel not enabled in result")
	}
	if included(g, "hw_accel") {
		t.Error("input graph was mutated")
	}

	out, err = Apply(out, analysis.Fix{Action: analysis.ActionDisable, TargetID: "sw_fallback"})
	if err != nil {
		t.Fatalf("Apply disable: %v", err)
	}
	if included(out, "sw_fallback") {
		t.Error("sw_fallback still included")
	}
}

func TestApplyErrors(t *testing.T) {
	g := decoder(t)

	tests := []struct {
		name string
		fix  analysis.Fix
		code cterrors.Code
	}{
		{"unknown target", analysis.Fix{Action: analysis.ActionEnable, TargetID: "ghost"}, cterrors.ErrCodeNodeNotFound},
		{"group target", analysis.Fix{Action: analysis.ActionEnable, TargetID: "hw"}, cterrors.ErrCodeInvalidInput},
		{"bad action", analysis.Fix{Action: "toggle", TargetID: "hw_accel"}, cterrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(g, tt.fix)
			if !cterrors.Is(err, tt.code) {
				t.Errorf("Apply() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestApplyAllResolvesReport(t *testing.T) {
	g := decoder(t)
	before := analysis.AnalyzeGraph(g, decoderTable)
	if before.Health() != analysis.HealthCritical {
		t.Fatalf("fixture health = %v, want critical", before.Health())
	}

	out, applied, err := ApplyAll(g, before)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("applied = %+v, want enable hw_accel and disable sw_fallback", applied)
	}

	after := analysis.AnalyzeGraph(out, decoderTable)
	if got := after.Get("gpu_decode").Health; got != analysis.HealthHealthy {
		t.Errorf("gpu_decode health after fixes = %v, want healthy: %+v", got, after.Get("gpu_decode").Issues)
	}
	if included(g, "hw_accel") || !included(g, "sw_fallback") {
		t.Error("ApplyAll mutated its input")
	}
}

func TestApplyAllFirstFixPerTargetWins(t *testing.T) {
	g := decoder(t)
	r := analysis.Report{
		ByNode: map[string]analysis.NodeAnalysis{
			"a": {NodeID: "a", Issues: []analysis.Issue{
				{ID: "one", Fix: &analysis.Fix{Action: analysis.ActionEnable, TargetID: "sw_fallback"}},
				{ID: "two", Fix: &analysis.Fix{Action: analysis.ActionDisable, TargetID: "sw_fallback"}},
			}},
		},
		Order: []string{"a"},
	}

	out, applied, err := ApplyAll(g, r)
	if err != nil {
		t.Fatal(err)
	}
	if len(applied) != 1 || applied[0].Action != analysis.ActionEnable {
		t.Errorf("applied = %+v, want only the first fix", applied)
	}
	if !included(out, "sw_fallback") {
		t.Error("second fix for the same target was applied")
	}
}
