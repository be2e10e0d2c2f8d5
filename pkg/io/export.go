package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/threadtree/pkg/digraph"
)

// WriteJSON encodes g as indented JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(g *digraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes g as TOML. The output can be read back with [ReadTOML].
func WriteTOML(g *digraph.Graph, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Write encodes g in the given format.
func Write(g *digraph.Graph, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(g, w)
	case FormatTOML:
		return WriteTOML(g, w)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// ExportFile writes g to path in the format implied by its extension.
func ExportFile(g *digraph.Graph, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f, format)
}
