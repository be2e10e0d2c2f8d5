package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/threadtree/pkg/digraph"
)

// ReadJSON decodes a JSON graph from r. It does not close r.
func ReadJSON(r io.Reader) (*digraph.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.toGraph()
}

// ReadTOML decodes a TOML graph from r. It does not close r.
func ReadTOML(r io.Reader) (*digraph.Graph, error) {
	var data graph
	if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return data.toGraph()
}

// Read decodes a graph in the given format.
func Read(r io.Reader, format Format) (*digraph.Graph, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ImportFile reads the graph file at path, choosing the decoder from the
// extension.
func ImportFile(path string) (*digraph.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
