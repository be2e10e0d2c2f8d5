// Package render turns binary trees into pictures.
//
// The [nodelink] subpackage produces Graphviz diagrams of a [tree.Tree]
// showing real child edges, thread edges and highlighted nodes. This package
// holds the format conversions shared by renderers:
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Threads: true})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//
// [ToPDF] shells out to rsvg-convert (librsvg); [HasConverter] reports
// whether it is installed.
//
// [nodelink]: github.com/matzehuels/threadtree/pkg/render/nodelink
// [tree.Tree]: github.com/matzehuels/threadtree/pkg/tree.Tree
package render
