package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/threadtree/pkg/cache"
	"github.com/matzehuels/threadtree/pkg/digraph"
	"github.com/matzehuels/threadtree/pkg/observability"
	"github.com/matzehuels/threadtree/pkg/render/nodelink"
	"github.com/matzehuels/threadtree/pkg/tree"
)

// Render draws the binary tree of g in every requested format. The second
// return value reports whether all artifacts came from the cache.
func (r *Runner) Render(ctx context.Context, g *digraph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	t, _, err := r.build(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Tree()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderTree(t, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.Logger.Debug("rendered tree", "formats", opts.Formats, "duration", time.Since(start))

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// RenderTree renders t without caching. When opts.Threads is set the tree is
// threaded for opts.Order while the diagram is generated and restored to its
// previous threading afterwards.
func RenderTree(t *tree.Tree, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	dot := DOT(t, opts, "")

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// DOT returns the Graphviz source for t. highlight, if not empty, names the
// node to fill.
func DOT(t *tree.Tree, opts Options, highlight string) string {
	order := opts.TreeOrder()
	nopts := nodelink.Options{
		Threads:         opts.Threads,
		HighlightLeaves: opts.HighlightLeaves,
		Highlight:       highlight,
	}
	if opts.Numbered {
		nopts.Sequence = tree.Collect(t.Traverse(order))
	}
	if opts.Threads {
		prev, threaded := t.ThreadedFor()
		switch {
		case !threaded:
			t.Threadify(order)
			defer t.Unthreadify()
		case prev != order:
			t.Unthreadify()
			t.Threadify(order)
			defer func() {
				t.Unthreadify()
				t.Threadify(prev)
			}()
		}
	}
	return nodelink.ToDOT(t, nopts)
}
