package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/configtower/pkg/analysis"
	cterrors "github.com/matzehuels/configtower/pkg/errors"
	ctio "github.com/matzehuels/configtower/pkg/io"
	"github.com/matzehuels/configtower/pkg/observability"
)

const decoderConfig = `{
  "modules": [
    {
      "id": "video_decoder",
      "name": "Video Decoder",
      "initial": "idle",
      "groups": [
        {"id": 10, "name": "Codec Support", "options": [
          {"id": 100, "key": "h264", "name": "H.264/AVC", "editable": true, "included": true},
          {"id": 103, "key": "av1", "name": "AV1", "editable": true, "included": true}
        ]},
        {"id": 11, "name": "Decoder Hardware", "options": [
          {"id": 110, "key": "hw_accel", "name": "Hardware Acceleration", "editable": true, "included": false}
        ]}
      ],
      "rules": [
        {"option_key": "av1", "requires": ["hw_accel"], "suggestion": "AV1 requires hardware acceleration"}
      ],
      "states": {"idle": {"INIT_DECODER": "decoding"}, "decoding": {"STOP": "idle"}}
    }
  ]
}`

// Node IDs produced by importing decoderConfig.
const (
	moduleID  = "node_2"
	codecsID  = "node_3"
	av1ID     = "node_5"
	hwGroupID = "node_6"
	hwAccelID = "node_7"
)

// captureOutput redirects command output into a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() {
		stdout = prev
		observability.Reset()
	})
	return &buf
}

// execute runs the CLI with args and an isolated cache directory.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--cache-dir", filepath.Join(t.TempDir(), "cache")}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// importDecoder writes decoderConfig and imports it, returning the graph
// and rule table paths.
func importDecoder(t *testing.T) (graphPath, rulesPath string) {
	t.Helper()
	dir := t.TempDir()
	raw := filepath.Join(dir, "decoder.json")
	if err := os.WriteFile(raw, []byte(decoderConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	graphPath = filepath.Join(dir, "decoder.graph.json")
	rulesPath = filepath.Join(dir, "rules.toml")

	captureOutput(t)
	if err := execute(t, "import", raw, "--rules-out", rulesPath); err != nil {
		t.Fatalf("import: %v", err)
	}
	return graphPath, rulesPath
}

func TestImportCommand(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)

	g, err := ctio.ImportGraph(graphPath)
	if err != nil {
		t.Fatalf("imported graph unreadable: %v", err)
	}
	if g.NodeCount() != 7 {
		t.Errorf("NodeCount = %d, want 7", g.NodeCount())
	}
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `option_key = "av1"`) {
		t.Errorf("rules file:\n%s", data)
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	out := captureOutput(t)

	if err := execute(t, "analyze", graphPath, "--rules", rulesPath, "--format", "json"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var report analysis.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not a report: %v\n%s", err, out)
	}
	is, ok := report.Issue("missing_dep_av1_hw_accel")
	if !ok {
		t.Fatalf("missing dependency not reported: %+v", report)
	}
	if is.Fix == nil || is.Fix.TargetID != hwAccelID {
		t.Errorf("fix = %+v", is.Fix)
	}
	if is.Message != "AV1 requires hardware acceleration" {
		t.Errorf("message = %q", is.Message)
	}
}

func TestAnalyzeCommandText(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	out := captureOutput(t)

	if err := execute(t, "analyze", graphPath, "--rules", rulesPath); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"Configuration analysis", "Missing Dependency: hw_accel", "fix: Enable hw_accel", "Critical:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommandRaw(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "decoder.json")
	if err := os.WriteFile(raw, []byte(decoderConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	out := captureOutput(t)

	if err := execute(t, "analyze", raw, "--raw", "--format", "json"); err != nil {
		t.Fatalf("analyze --raw: %v", err)
	}
	if !strings.Contains(out.String(), "missing_dep_av1_hw_accel") {
		t.Error("raw config rules were not applied")
	}
}

func TestAnalyzeCommandStrict(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	captureOutput(t)

	if err := execute(t, "analyze", graphPath, "--rules", rulesPath, "--strict"); err == nil {
		t.Error("--strict should fail on critical issues")
	}
}

func TestFixCommand(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	captureOutput(t)

	if err := execute(t, "fix", graphPath, "missing_dep_av1_hw_accel", "--rules", rulesPath); err != nil {
		t.Fatalf("fix: %v", err)
	}
	g, err := ctio.ImportGraph(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node(hwAccelID)
	if !n.Included() {
		t.Error("hw_accel should be enabled after the fix")
	}

	out := captureOutput(t)
	if err := execute(t, "analyze", graphPath, "--rules", rulesPath, "--format", "json"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "missing_dep_av1_hw_accel") {
		t.Error("issue still reported after fix")
	}
}

func TestFixCommandErrors(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	captureOutput(t)

	tests := []struct {
		name string
		args []string
		code cterrors.Code
	}{
		{"neither id nor all", []string{"fix", graphPath}, cterrors.ErrCodeInvalidInput},
		{"both id and all", []string{"fix", graphPath, "x", "--all"}, cterrors.ErrCodeInvalidInput},
		{"unknown issue", []string{"fix", graphPath, "nope", "--rules", rulesPath}, cterrors.ErrCodeNotFound},
		{"issue without fix", []string{"fix", graphPath, "needed_by_hw_accel_av1", "--rules", rulesPath}, cterrors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if !cterrors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFixAllDryRun(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	before, _ := os.ReadFile(graphPath)
	captureOutput(t)

	if err := execute(t, "fix", graphPath, "--all", "--dry-run", "--rules", rulesPath); err != nil {
		t.Fatalf("fix --all --dry-run: %v", err)
	}
	after, _ := os.ReadFile(graphPath)
	if !bytes.Equal(before, after) {
		t.Error("dry run modified the graph file")
	}
}

func TestConnectCommand(t *testing.T) {
	graphPath, _ := importDecoder(t)

	t.Run("rejected", func(t *testing.T) {
		out := captureOutput(t)
		before, _ := os.ReadFile(graphPath)
		err := execute(t, "connect", graphPath, av1ID, codecsID)
		if !cterrors.Is(err, cterrors.ErrCodeConnectionRejected) {
			t.Fatalf("error = %v, want CONNECTION_REJECTED", err)
		}
		if !strings.Contains(out.String(), "Wrong direction: connect group → option instead") {
			t.Errorf("validator message not printed:\n%s", out)
		}
		after, _ := os.ReadFile(graphPath)
		if !bytes.Equal(before, after) {
			t.Error("rejected connection modified the file")
		}
	})

	t.Run("second parent", func(t *testing.T) {
		captureOutput(t)
		err := execute(t, "connect", graphPath, hwGroupID, av1ID)
		if !cterrors.Is(err, cterrors.ErrCodeConnectionRejected) {
			t.Errorf("error = %v, want CONNECTION_REJECTED", err)
		}
	})

	t.Run("accepted", func(t *testing.T) {
		captureOutput(t)
		if err := execute(t, "add", graphPath, "group", "--label", "Spare"); err != nil {
			t.Fatalf("add: %v", err)
		}
		out := captureOutput(t)
		if err := execute(t, "connect", graphPath, moduleID, "node_8"); err != nil {
			t.Fatalf("connect: %v", err)
		}
		if !strings.Contains(out.String(), "Modules hold groups") {
			t.Errorf("output:\n%s", out)
		}
		g, _ := ctio.ImportGraph(graphPath)
		if got := g.Parents("node_8"); len(got) != 1 || got[0] != moduleID {
			t.Errorf("parents = %v", got)
		}
	})
}

func TestAddCommand(t *testing.T) {
	graphPath, _ := importDecoder(t)
	captureOutput(t)

	if err := execute(t, "add", graphPath, "option", "--parent", codecsID, "--key", "vp9", "--included"); err != nil {
		t.Fatalf("add: %v", err)
	}
	g, err := ctio.ImportGraph(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	n, ok := g.Node("node_8")
	if !ok {
		t.Fatal("new node not written")
	}
	if n.Label != "New Option" || n.Key() != "vp9" || !n.Included() || n.Locked() {
		t.Errorf("node = %+v", n)
	}
	if got := g.Parents("node_8"); len(got) != 1 || got[0] != codecsID {
		t.Errorf("parents = %v", got)
	}

	if err := execute(t, "add", graphPath, "module", "--parent", codecsID); !cterrors.Is(err, cterrors.ErrCodeConnectionRejected) {
		t.Errorf("module under group: %v", err)
	}
	if err := execute(t, "add", graphPath, "widget"); !cterrors.Is(err, cterrors.ErrCodeInvalidInput) {
		t.Errorf("bad kind: %v", err)
	}
	if err := execute(t, "add", graphPath, "group", "--key", "x"); !cterrors.Is(err, cterrors.ErrCodeInvalidInput) {
		t.Errorf("key on group: %v", err)
	}
}

func TestSetCommand(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	out := captureOutput(t)

	err := execute(t, "set", graphPath, hwAccelID,
		"--prop", "included=true",
		"--prop", "priority=3",
		"--prop", "note=fast path",
		"--label", "HW Accel",
		"--description", "GPU offload",
		"--visible=false",
		"--visibility-rule", "platform == 'linux'",
	)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(out.String(), "Updated Option") {
		t.Errorf("output:\n%s", out)
	}

	g, err := ctio.ImportGraph(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node(hwAccelID)
	if !n.Included() || n.Label != "HW Accel" || n.Description != "GPU offload" || n.Visible || n.VisibilityRule != "platform == 'linux'" {
		t.Errorf("node = %+v", n)
	}
	if v, ok := n.Props.Number("priority"); !ok || v != 3 {
		t.Errorf("priority = %v, %v", v, ok)
	}
	if v, _ := n.Props.String("note"); v != "fast path" {
		t.Errorf("note = %q", v)
	}

	// Enabling the dependency clears the analyzer error.
	out.Reset()
	if err := execute(t, "analyze", graphPath, "--rules", rulesPath, "--format", "json"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var report analysis.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not a report: %v\n%s", err, out)
	}
	if _, ok := report.Issue("missing_dep_av1_hw_accel"); ok {
		t.Error("missing dependency still reported after enabling hw_accel")
	}

	if err := execute(t, "set", graphPath, hwAccelID, "--unset-prop", "note"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	g, _ = ctio.ImportGraph(graphPath)
	n, _ = g.Node(hwAccelID)
	if _, ok := n.Props.Get("note"); ok {
		t.Error("note still present")
	}
	if !n.Included() {
		t.Error("unset touched other properties")
	}
}

func TestSetCommandErrors(t *testing.T) {
	graphPath, _ := importDecoder(t)
	captureOutput(t)

	tests := []struct {
		name string
		args []string
		code cterrors.Code
	}{
		{"no changes", []string{hwAccelID}, cterrors.ErrCodeInvalidInput},
		{"output only", []string{hwAccelID, "-o", filepath.Join(t.TempDir(), "g.json")}, cterrors.ErrCodeInvalidInput},
		{"unknown node", []string{"nope", "--label", "x"}, cterrors.ErrCodeNodeNotFound},
		{"bad assignment", []string{hwAccelID, "--prop", "included"}, cterrors.ErrCodeInvalidInput},
		{"included not bool", []string{hwAccelID, "--prop", "included=yes"}, cterrors.ErrCodeInvalidInput},
		{"included on group", []string{codecsID, "--prop", "included=true"}, cterrors.ErrCodeInvalidInput},
		{"bad key", []string{hwAccelID, "--prop", "key=_hidden"}, cterrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, append([]string{"set", graphPath}, tt.args...)...)
			if !cterrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	g, _ := ctio.ImportGraph(graphPath)
	if n, _ := g.Node(hwAccelID); n.Included() {
		t.Error("failed set wrote the graph")
	}
}

func TestRemoveCommand(t *testing.T) {
	graphPath, _ := importDecoder(t)
	out := captureOutput(t)

	if err := execute(t, "remove", graphPath, hwGroupID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(out.String(), "orphaned") {
		t.Errorf("expected orphan warning:\n%s", out)
	}
	g, _ := ctio.ImportGraph(graphPath)
	if _, ok := g.Node(hwGroupID); ok {
		t.Error("node still present")
	}
	if err := execute(t, "remove", graphPath, "nope"); !cterrors.Is(err, cterrors.ErrCodeNodeNotFound) {
		t.Errorf("unknown node: %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	out := captureOutput(t)

	if err := execute(t, "inspect", graphPath, av1ID, "--rules", rulesPath, "--format", "json"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var got inspectOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, out)
	}
	if got.Analysis.Health != analysis.HealthCritical || len(got.Analysis.Dependencies) != 1 {
		t.Errorf("analysis = %+v", got.Analysis)
	}

	out = captureOutput(t)
	if err := execute(t, "inspect", graphPath, moduleID, "--rules", rulesPath); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Video Decoder") {
		t.Errorf("text output:\n%s", out)
	}

	if err := execute(t, "inspect", graphPath, "nope"); !cterrors.Is(err, cterrors.ErrCodeNodeNotFound) {
		t.Errorf("unknown node: %v", err)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	captureOutput(t)
	out := filepath.Join(t.TempDir(), "decoder.dot")

	if err := execute(t, "render", graphPath, "--rules", rulesPath, "-o", out, "--direction", "lr"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"digraph G {", "rankdir=LR;", `label="requires"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("DOT missing %q", want)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	out := captureOutput(t)
	if err := execute(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out.String()), "cache") {
		t.Errorf("cache path = %q", out)
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("defaultCacheDir() = %q", dir)
	}
}

func TestCacheCommands(t *testing.T) {
	graphPath, rulesPath := importDecoder(t)
	dir := filepath.Join(t.TempDir(), "cache")
	run := func(args ...string) string {
		t.Helper()
		out := captureOutput(t)
		root := New(io.Discard, LogInfo).RootCommand()
		root.SetArgs(append([]string{"--cache-dir", dir}, args...))
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	if got := run("cache", "info"); !strings.Contains(got, "Cache is empty") {
		t.Errorf("info before use:\n%s", got)
	}
	run("analyze", graphPath, "--rules", rulesPath)
	if got := run("cache", "info"); !strings.Contains(got, "Entries") || !strings.Contains(got, "1") {
		t.Errorf("info after analyze:\n%s", got)
	}
	if got := run("cache", "clear"); !strings.Contains(got, "Cleared 1 cached entries") {
		t.Errorf("clear:\n%s", got)
	}
	if got := strings.TrimSpace(run("cache", "path")); got != dir {
		t.Errorf("path = %q, want %q", got, dir)
	}
}

func TestNodeIDCompletion(t *testing.T) {
	graphPath, _ := importDecoder(t)
	complete := nodeIDCompletion(2)

	if got, dir := complete(nil, nil, ""); got != nil || dir != cobra.ShellCompDirectiveDefault {
		t.Errorf("graph argument should complete files, got %v %v", got, dir)
	}
	got, dir := complete(nil, []string{graphPath}, "node_")
	if dir != cobra.ShellCompDirectiveNoFileComp || len(got) != 7 {
		t.Fatalf("completions = %v (%v)", got, dir)
	}
	if got[4] != "node_5\tOption: AV1" {
		t.Errorf("completion = %q", got[4])
	}
	if got, _ := complete(nil, []string{graphPath, "node_5"}, ""); got != nil {
		t.Errorf("extra argument completed: %v", got)
	}
	if got, _ := nodeIDCompletion(-1)(nil, []string{graphPath, "option"}, "node_7"); len(got) != 1 {
		t.Errorf("flag completion = %v", got)
	}
}
