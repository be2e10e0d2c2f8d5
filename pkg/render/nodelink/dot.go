package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/threadtree/pkg/render"
	"github.com/matzehuels/threadtree/pkg/tree"
)

// Thread and highlight colours.
const (
	ColorLeftThread  = "green"
	ColorRightThread = "cyan"
	ColorLeaf        = "violet"
	ColorHighlight   = "yellow"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Threads draws the tree's current thread references as dashed edges.
	Threads bool
	// HighlightLeaves colours nodes without real children.
	HighlightLeaves bool
	// Highlight fills a single node, e.g. the current node of a traversal.
	Highlight string
	// Sequence, when set, appends each node's 1-based position in it to
	// the node label.
	Sequence []string
}

// ToDOT converts a binary tree to Graphviz DOT source.
func ToDOT(t *tree.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	position := make(map[string]int, len(opts.Sequence))
	for i, id := range opts.Sequence {
		if _, seen := position[id]; !seen {
			position[id] = i + 1
		}
	}

	ids := t.Nodes()
	for _, id := range ids {
		info := t.Info(id)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(id, info, position, opts), ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		info := t.Info(id)
		if info.HasLeftChild() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, info.Left)
		}
		switch {
		case info.HasRightChild():
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, info.Right)
		case info.HasLeftChild():
			placeholder := "__right_of_" + id
			fmt.Fprintf(&buf, "  %q [style=invis, label=\"\"];\n", placeholder)
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", id, placeholder)
		}
	}

	if opts.Threads {
		buf.WriteString("\n")
		for _, th := range t.Threads() {
			color := ColorRightThread
			if th.Side == tree.LeftSide {
				color = ColorLeftThread
			}
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=%s, constraint=false];\n", th.From, th.To, color)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(id string, info *tree.BinaryInfo, position map[string]int, opts Options) []string {
	label := id
	if p, ok := position[id]; ok {
		label = fmt.Sprintf("%s\n#%d", id, p)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case id == opts.Highlight:
		attrs = append(attrs, "fillcolor="+ColorHighlight)
	case opts.HighlightLeaves && info.IsLeaf():
		attrs = append(attrs, "color="+ColorLeaf, "fontcolor="+ColorLeaf)
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := renderFormat(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
