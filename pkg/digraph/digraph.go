package digraph

import (
	"errors"
	"slices"
	"strconv"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// MetaX is the metadata key holding a node's horizontal position.
const MetaX = "x"

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil after they pass through [Graph.AddNode] or [New].
type Metadata map[string]any

// Node is a vertex of the graph. The ID is the node's identity and display label.
type Node struct {
	ID   string
	Meta Metadata
}

// Edge is a directed connection from one node to another.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph keyed by string node IDs.
//
// It accepts any edge set, including cycles and nodes with several parents:
// deciding whether the graph is a tree is left to package tree.
// Nodes are reported in insertion order so that every algorithm running over
// a Graph is deterministic.
//
// The zero value is not usable - use [New]. A Graph is not safe for
// concurrent use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID for an empty ID
// and ErrDuplicateNodeID if the ID is already taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Self loops and parallel edges are accepted.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the first edge from→to if it exists.
func (g *Graph) RemoveEdge(from, to string) {
	if i := slices.Index(g.edges, Edge{From: from, To: to}); i >= 0 {
		g.edges = slices.Delete(g.edges, i, i+1)
	}
	if i := slices.Index(g.outgoing[from], to); i >= 0 {
		g.outgoing[from] = slices.Delete(g.outgoing[from], i, i+1)
	}
	if i := slices.Index(g.incoming[to], from); i >= 0 {
		g.incoming[to] = slices.Delete(g.incoming[to], i, i+1)
	}
}

// RemoveNode deletes a node together with all of its incident edges.
// It is a no-op for unknown IDs.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, child := range slices.Clone(g.outgoing[id]) {
		g.RemoveEdge(id, child)
	}
	for _, parent := range slices.Clone(g.incoming[id]) {
		g.RemoveEdge(parent, id)
	}
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The pointers refer to the
// graph's own nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the targets of the node's outgoing edges in insertion order.
// The returned slice should be treated as read-only.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the sources of the node's incoming edges.
// The returned slice should be treated as read-only.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, g.nodes[id])
		}
	}
	return sinks
}

// Position returns the node's horizontal position stored under [MetaX].
// Numeric values of any width and numeric strings are accepted; anything
// else reports false.
func (g *Graph) Position(id string) (float64, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return 0, false
	}
	switch v := n.Meta[MetaX].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
