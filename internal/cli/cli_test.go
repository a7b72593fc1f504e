package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/diagram"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

const sampleDoc = `{"name":"demo","tags":["a","b"],"owner":{"id":7}}`

// newTestCLI returns a CLI with isolated config and cache directories,
// reading stdin from in and writing stdout to the returned buffer. Status
// lines are collected in c.Stderr.
func newTestCLI(t *testing.T, in string) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, log.InfoLevel)
	c.Stdin = strings.NewReader(in)
	c.Stdout = &out
	c.Stderr = &bytes.Buffer{}
	return c, &out
}

func stderr(c *CLI) string {
	return c.Stderr.(*bytes.Buffer).String()
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"json", []string{"json"}},
		{"svg, dot,,mermaid", []string{"svg", "dot", "mermaid"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInputBase(t *testing.T) {
	tests := map[string]string{
		"data/config.json":             "data/config",
		"feed.xml":                     "feed",
		"-":                            "graph",
		"https://example.com/doc.json": "graph",
	}
	for in, want := range tests {
		if got := inputBase(in); got != want {
			t.Errorf("inputBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		src     string
		output  string
		want    map[string]string
	}{
		{"single explicit", []string{"svg"}, "doc.json", "out/pic.svg", map[string]string{"svg": "out/pic.svg"}},
		{"single derived", []string{"svg"}, "doc.json", "", map[string]string{"svg": "doc.svg"}},
		{"multiple base", []string{"svg", "mermaid"}, "doc.json", "out/pic.svg", map[string]string{"svg": "out/pic.svg", "mermaid": "out/pic.mmd"}},
		{"never overwrite input", []string{"json"}, "doc.json", "", map[string]string{"json": "doc.graph.json"}},
		{"stdin", []string{"dot"}, "-", "", map[string]string{"dot": "graph.dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.formats, tt.src, tt.output); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildStdout(t *testing.T) {
	c, out := newTestCLI(t, sampleDoc)
	if err := execute(t, c, "build", "-", "--no-cache"); err != nil {
		t.Fatalf("build: %v", err)
	}

	g, err := diagram.ReadGraph(out)
	if err != nil {
		t.Fatalf("read graph: %v", err)
	}
	if _, ok := g.Node("owner"); !ok {
		t.Errorf("graph is missing node owner: %+v", g.Nodes)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestBuildFile(t *testing.T) {
	c, _ := newTestCLI(t, "")
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.xml")
	if err := os.WriteFile(in, []byte(`<doc><item>1</item><item>2</item></doc>`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "graph.json")

	if err := execute(t, c, "build", in, "-o", out); err != nil {
		t.Fatalf("build: %v", err)
	}
	g, err := diagram.ReadGraphFile(out)
	if err != nil {
		t.Fatalf("read graph: %v", err)
	}
	if n, ok := g.Node("doc-item"); !ok || n.MergedContent != "item {2}" {
		t.Errorf("doc-item = %+v, %v", n, ok)
	}
}

func TestBuildInvalid(t *testing.T) {
	c, out := newTestCLI(t, `{"name":`)
	err := execute(t, c, "build", "-", "--no-cache")
	if err == nil {
		t.Fatal("build of malformed JSON should fail")
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be written on failure, got %q", out.String())
	}
}

func TestBuildMissingFile(t *testing.T) {
	c, _ := newTestCLI(t, "")
	if err := execute(t, c, "build", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRenderStdout(t *testing.T) {
	c, out := newTestCLI(t, sampleDoc)
	if err := execute(t, c, "render", "-", "-f", "mermaid", "-o", "-", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out.String(), "flowchart TD\n") {
		t.Errorf("unexpected mermaid output:\n%s", out.String())
	}
}

func TestRenderFiles(t *testing.T) {
	c, _ := newTestCLI(t, sampleDoc)
	base := filepath.Join(t.TempDir(), "diagram")

	if err := execute(t, c, "render", "-", "-f", "dot,json", "-o", base, "--rankdir", "LR"); err != nil {
		t.Fatalf("render: %v", err)
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), "rankdir=LR;") {
		t.Errorf("dot output ignores --rankdir:\n%s", dot)
	}
	if _, err := os.Stat(base + ".json"); err != nil {
		t.Errorf("json output missing: %v", err)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	c, _ := newTestCLI(t, sampleDoc)
	if err := execute(t, c, "render", "-", "-f", "pdf"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		args    []string
		wantErr bool
	}{
		{"valid", sampleDoc, nil, false},
		{"malformed", `[1,`, nil, true},
		{"empty graph", `{}`, nil, true},
		{"empty allowed", `{}`, []string{"--allow-empty"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t, tt.doc)
			args := append([]string{"validate", "-", "--no-cache"}, tt.args...)
			err := execute(t, c, args...)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMessages(t *testing.T) {
	c, out := newTestCLI(t, `{"a_b":{"x":1},"A_B":{"y":2}}`)
	if err := execute(t, c, "validate", "-", "--no-cache"); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("validate wrote to stdout: %q", out.String())
	}
	msgs := stderr(c)
	for _, want := range []string{`duplicate node ID "aB"`, "- is valid"} {
		if !strings.Contains(msgs, want) {
			t.Errorf("status output missing %q:\n%s", want, msgs)
		}
	}

	c, _ = newTestCLI(t, `{"a":`)
	if err := execute(t, c, "validate", "-", "--no-cache"); err != errInvalidGraph {
		t.Fatalf("validate error = %v, want errInvalidGraph", err)
	}
	if !strings.Contains(stderr(c), "INVALID_DOCUMENT") {
		t.Errorf("status output should name the error code:\n%s", stderr(c))
	}
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		nodes, connectors int
		cached            bool
		want              []string
	}{
		{1, 0, false, []string{"1 node", "fresh"}},
		{4, 3, true, []string{"4 nodes", "3 connectors", "cached"}},
	}
	for _, tt := range tests {
		got := statsLine(tt.nodes, tt.connectors, tt.cached)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("statsLine(%d, %d, %v) = %q, missing %q", tt.nodes, tt.connectors, tt.cached, got, w)
			}
		}
	}
}

func TestCheckGraph(t *testing.T) {
	g := diagram.New()
	g.AddNode(diagram.Node{ID: "a"})
	g.AddNode(diagram.Node{ID: "b"})
	g.Connect("a", "missing")

	problems := checkGraph(g, false)
	if len(problems) < 2 {
		t.Errorf("checkGraph() = %v, want dangling connector and second root", problems)
	}
	if got := checkGraph(diagram.New(), true); got != nil {
		t.Errorf("empty graph allowed, got %v", got)
	}
}

func TestStats(t *testing.T) {
	c, out := newTestCLI(t, sampleDoc)
	if err := execute(t, c, "stats", "-", "--no-cache"); err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Nodes", "Connectors", "primitive", "flat-objects"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats output missing %q:\n%s", want, out.String())
		}
	}
}

func TestBar(t *testing.T) {
	if got := bar(0, 5); got != "" {
		t.Errorf("bar(0, 5) = %q", got)
	}
	if got := bar(5, 5); len([]rune(got)) != histogramWidth {
		t.Errorf("bar(5, 5) has %d cells, want %d", len([]rune(got)), histogramWidth)
	}
	if got := bar(1, 1000); len([]rune(got)) != 1 {
		t.Errorf("bar(1, 1000) = %q, want a single cell", got)
	}
}

func TestBuildFlagsUseConfig(t *testing.T) {
	c, _ := newTestCLI(t, "")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[engine]\nunique_ids = true\nmax_depth = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var got pipeline.Options
	root := c.RootCommand()
	build, _, err := root.Find([]string{"build"})
	if err != nil {
		t.Fatal(err)
	}
	build.RunE = nil
	build.Run = func(cmd *cobra.Command, args []string) {
		var f buildFlags
		f.maxDepth, _ = cmd.Flags().GetInt("max-depth")
		got = f.options(cmd, c.Config)
	}
	root.SetArgs([]string{"--config", cfgPath, "build", "x", "--max-depth", "3"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !got.UniqueIDs {
		t.Error("unique_ids from config file was ignored")
	}
	if got.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want flag value 3", got.MaxDepth)
	}
}

func TestCachePath(t *testing.T) {
	c, out := newTestCLI(t, "")
	if err := execute(t, c, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want, _ := cacheDir()
	if strings.TrimSpace(out.String()) != want {
		t.Errorf("cache path = %q, want %q", out.String(), want)
	}
}

func TestBadConfig(t *testing.T) {
	c, _ := newTestCLI(t, "")
	if err := execute(t, c, "--config", filepath.Join(t.TempDir(), "none.toml"), "cache", "path"); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}
