package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/threadtree/pkg/digraph"
)

const sampleJSON = `{
  "nodes": [{"id": "A"}, {"id": "B", "x": 40}, {"id": "C", "x": 120, "meta": {"color": "red"}}],
  "edges": [{"from": "A", "to": "B"}, {"from": "A", "to": "C"}]
}`

const sampleTOML = `
[[nodes]]
id = "A"

[[nodes]]
id = "B"
x = 40.0

[[nodes]]
id = "C"
x = 120.0
meta = { color = "red" }

[[edges]]
from = "A"
to = "B"

[[edges]]
from = "A"
to = "C"
`

func checkSample(t *testing.T, g *digraph.Graph) {
	t.Helper()
	if got := g.NodeIDs(); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("NodeIDs() = %v", got)
	}
	if got := g.Children("A"); !slices.Equal(got, []string{"B", "C"}) {
		t.Errorf("Children(A) = %v", got)
	}
	if x, ok := g.Position("C"); !ok || x != 120 {
		t.Errorf("Position(C) = (%v, %v), want (120, true)", x, ok)
	}
	if _, ok := g.Position("A"); ok {
		t.Error("Position(A) reported a position")
	}
	if c, _ := g.Node("C"); c.Meta["color"] != "red" {
		t.Errorf("C meta = %v", c.Meta)
	}
}

func TestReadJSON(t *testing.T) {
	g, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	checkSample(t, g)
}

func TestReadTOML(t *testing.T) {
	g, err := ReadTOML(strings.NewReader(sampleTOML))
	if err != nil {
		t.Fatalf("ReadTOML() error = %v", err)
	}
	checkSample(t, g)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, digraph.ErrDuplicateNodeID},
		{"unknown target", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, digraph.ErrUnknownTargetNode},
		{"empty id", `{"nodes":[{"id":""}]}`, digraph.ErrInvalidNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.input)); !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("ReadJSON() accepted malformed input")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			src, err := ReadJSON(strings.NewReader(sampleJSON))
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := Write(src, &buf, format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			g, err := Read(&buf, format)
			if err != nil {
				t.Fatalf("Read() error = %v\n%s", err, buf.String())
			}
			checkSample(t, g)
		})
	}
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	src, err := ReadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"graph.json", "graph.toml"} {
		path := filepath.Join(dir, name)
		if err := ExportFile(src, path); err != nil {
			t.Fatalf("ExportFile(%s) error = %v", name, err)
		}
		g, err := ImportFile(path)
		if err != nil {
			t.Fatalf("ImportFile(%s) error = %v", name, err)
		}
		checkSample(t, g)
	}

	if _, err := ImportFile(filepath.Join(dir, "graph.yaml")); err == nil {
		t.Error("ImportFile accepted .yaml")
	}
	if _, err := ImportFile(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ImportFile(missing) error = %v, want ErrNotExist", err)
	}
}
