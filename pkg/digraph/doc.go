// Package digraph provides the directed graph that feeds the tree builder.
//
// Nodes are identified by non-empty, unique string IDs and may carry
// [Metadata]. The only key the rest of the module reads is [MetaX], a node's
// horizontal position, used to decide which of two siblings is drawn on the
// left.
//
// Unlike a DAG the graph accepts cycles, self loops and nodes with several
// parents: such input is legal here and rejected later by tree.Root with a
// precise error.
//
//	g := digraph.New(nil)
//	g.AddNode(digraph.Node{ID: "root"})
//	g.AddNode(digraph.Node{ID: "leaf", Meta: digraph.Metadata{digraph.MetaX: 10.0}})
//	g.AddEdge(digraph.Edge{From: "root", To: "leaf"})
//
// All listings (Nodes, NodeIDs, Edges, Children) follow insertion order.
package digraph
