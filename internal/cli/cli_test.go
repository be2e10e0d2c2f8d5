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

	errs "github.com/matzehuels/threadtree/pkg/errors"
	"github.com/matzehuels/threadtree/pkg/pipeline"
)

const sampleGraph = `{
  "nodes": [{"id": "A"}, {"id": "B"}, {"id": "C"}, {"id": "D"}],
  "edges": [{"from": "A", "to": "B"}, {"from": "A", "to": "C"}, {"from": "B", "to": "D"}]
}`

// isolate points the config and cache directories at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"SVG, dot,,png", []string{"svg", "dot", "png"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "trees/sample.json", "trees/sample"},
		{"", "-", "tree"},
		{"out/tree.svg", "sample.json", "out/tree"},
		{"out/tree.v2", "sample.json", "out/tree.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)

	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, want := range []string{"Valid binary tree", "A", "C, D"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestValidateCommandErrors(t *testing.T) {
	dir := isolate(t)
	tests := []struct {
		name  string
		graph string
		code  errs.Code
	}{
		{
			name:  "forest",
			graph: `{"nodes":[{"id":"A"},{"id":"B"}],"edges":[]}`,
			code:  errs.ErrCodeInvalidTree,
		},
		{
			name:  "ternary",
			graph: `{"nodes":[{"id":"A"},{"id":"B"},{"id":"C"},{"id":"D"}],"edges":[{"from":"A","to":"B"},{"from":"A","to":"C"},{"from":"A","to":"D"}]}`,
			code:  errs.ErrCodeNotBinary,
		},
		{
			name:  "malformed",
			graph: `{"nodes":`,
			code:  errs.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".json", tt.graph)
			_, err := execute(t, "validate", path)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "validate", filepath.Join(dir, "nope.json"))
		if !errs.Is(err, errs.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want code %s", err, errs.ErrCodeFileNotFound)
		}
	})
}

func TestTraverseCommand(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"default in-order", nil, []string{"D → B → A → C"}},
		{"pre-order", []string{"--order", "pre"}, []string{"A → B → D → C"}},
		{"threaded post-order", []string{"--order", "post", "--thread"}, []string{"D → B → C → A", "threads"}},
		{"threaded in-order threads", []string{"-t"}, []string{"D → B → A → C", "B → A (right)"}},
		{"all orders", []string{"--all", "--no-cache"}, []string{"A → B → D → C", "D → B → A → C", "D → B → C → A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"traverse", path}, tt.args...)...)
			if err != nil {
				t.Fatalf("traverse: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestTraverseCommandJSON(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)

	out, err := execute(t, "traverse", path, "--json", "--thread", "--order", "pre")
	if err != nil {
		t.Fatalf("traverse: %v", err)
	}
	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got := strings.Join(res.Sequence, ""); got != "ABDC" {
		t.Errorf("sequence = %s, want ABDC", got)
	}
	if !res.Threaded || res.Root != "A" {
		t.Errorf("result = %+v", res)
	}

	// Second run is served from the file cache.
	out, err = execute(t, "traverse", path, "--json", "--thread", "--order", "pre")
	if err != nil {
		t.Fatalf("traverse: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if !res.CacheHit {
		t.Error("second traversal should hit the cache")
	}
}

func TestTraverseCommandInvalidOrder(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)

	_, err := execute(t, "traverse", path, "--order", "level")
	if !errs.Is(err, errs.ErrCodeInvalidOrder) {
		t.Errorf("error = %v, want code %s", err, errs.ErrCodeInvalidOrder)
	}
}

func TestTraverseUsesConfig(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)
	cfg := writeFile(t, dir, "config.toml", "order = \"post\"\norder_by = \"id-desc\"\n\n[cache]\nbackend = \"none\"\n")

	out, err := execute(t, "--config", cfg, "traverse", path)
	if err != nil {
		t.Fatalf("traverse: %v", err)
	}
	// id-desc puts C on the left.
	if !strings.Contains(out, "C → D → B → A") {
		t.Errorf("output %q should use the configured order", out)
	}

	out, err = execute(t, "--config", cfg, "traverse", path, "--order", "in")
	if err != nil {
		t.Fatalf("traverse: %v", err)
	}
	if !strings.Contains(out, "C → A → D → B") {
		t.Errorf("output %q: flag should override config", out)
	}
}

func TestRenderCommandDOT(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)
	output := filepath.Join(dir, "out", "tree.dot")

	out, err := execute(t, "render", path, "-f", "dot", "-o", output, "--threads", "--order", "in")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, output) {
		t.Errorf("output %q should list %s", out, output)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	if !strings.HasPrefix(dot, "digraph T {") {
		t.Errorf("unexpected DOT: %s", dot)
	}
	if !strings.Contains(dot, `"B" -> "A" [style=dashed`) {
		t.Errorf("DOT should contain the B -> A thread:\n%s", dot)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)

	_, err := execute(t, "render", path, "-f", "gif")
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want code %s", err, errs.ErrCodeInvalidFormat)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "tree.json", sampleGraph)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(dir, "cache", appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("output %q, want empty cache message", out)
	}

	if _, err := execute(t, "traverse", path); err != nil {
		t.Fatalf("traverse: %v", err)
	}
	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("output %q, want one cleared entry", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the command name")
	}
}

func TestCompletionFlagValues(t *testing.T) {
	isolate(t)
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"__complete", "traverse", "tree.json", "--order", ""}, []string{"pre", "in", "post"}},
		{[]string{"__complete", "animate", "tree.json", "--order-by", ""}, []string{"id", "id-desc", "x", "x-desc"}},
		{[]string{"__complete", "render", "tree.json", "--format", ""}, []string{"svg", "png", "pdf", "dot"}},
		{[]string{"__complete", "serve", "--store", ""}, []string{"memory", "mongo"}},
	}
	for _, tt := range tests {
		t.Run(tt.args[1], func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("complete: %v", err)
			}
			lines := strings.Split(out, "\n")
			for _, want := range tt.want {
				found := false
				for _, l := range lines {
					if l == want {
						found = true
					}
				}
				if !found {
					t.Errorf("completions %q missing %q", out, want)
				}
			}
		})
	}
}

func TestCompletionHelp(t *testing.T) {
	isolate(t)
	out, err := execute(t, "completion", "--help")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "threadtree traverse tree.json --order") {
		t.Errorf("help %q should show a flag value example", out)
	}
}
