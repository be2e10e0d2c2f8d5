// Package nodelink renders binary trees as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a tree to DOT, then render it:
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Threads: true, HighlightLeaves: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Drawing rules
//
// Real child edges are solid and keep their side: a node whose only child is
// on the left gets an invisible placeholder on the right, so left and right
// stay visually distinct. When the tree is threaded and [Options.Threads] is
// set, predecessor threads are drawn as dashed green arrows and successor
// threads as dashed cyan arrows; thread edges never influence the layout.
// Leaves can be coloured violet and a single node filled yellow, which is how
// the animated traversal marks the current node.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. PDF conversion goes through the parent render package.
package nodelink
