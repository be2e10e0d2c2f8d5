package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/threadtree/pkg/digraph"
)

// Format identifies a graph file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported graph file %q (want .json or .toml)", path)
}

type graph struct {
	Nodes []node `json:"nodes" toml:"nodes"`
	Edges []edge `json:"edges" toml:"edges"`
}

type node struct {
	ID   string           `json:"id" toml:"id"`
	X    *float64         `json:"x,omitempty" toml:"x,omitempty"`
	Meta digraph.Metadata `json:"meta,omitempty" toml:"meta,omitempty"`
}

type edge struct {
	From string `json:"from" toml:"from"`
	To   string `json:"to" toml:"to"`
}

// toGraph builds a digraph from the decoded document. Errors name the node
// or edge at fault.
func (data graph) toGraph() (*digraph.Graph, error) {
	g := digraph.New(nil)
	for _, n := range data.Nodes {
		meta := digraph.Metadata{}
		for k, v := range n.Meta {
			meta[k] = v
		}
		if n.X != nil {
			meta[digraph.MetaX] = *n.X
		}
		if err := g.AddNode(digraph.Node{ID: n.ID, Meta: meta}); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(digraph.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// fromGraph is the inverse of toGraph.
func fromGraph(g *digraph.Graph) graph {
	out := graph{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID}
		if x, ok := g.Position(n.ID); ok {
			nd.X = &x
		}
		for k, v := range n.Meta {
			if k == digraph.MetaX {
				continue
			}
			if nd.Meta == nil {
				nd.Meta = digraph.Metadata{}
			}
			nd.Meta[k] = v
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}
	return out
}
