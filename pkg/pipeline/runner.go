package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/threadtree/pkg/cache"
	"github.com/matzehuels/threadtree/pkg/digraph"
	"github.com/matzehuels/threadtree/pkg/errors"
	graphio "github.com/matzehuels/threadtree/pkg/io"
	"github.com/matzehuels/threadtree/pkg/observability"
	"github.com/matzehuels/threadtree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Every call builds
// its own binary tree, so multiple goroutines can safely share a Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// GraphHash returns the content hash of g used in cache keys.
func GraphHash(g *digraph.Graph) (string, error) {
	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, &buf); err != nil {
		return "", fmt.Errorf("serialize graph for cache key: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// Validate checks that g is a rooted tree and returns its root.
func (r *Runner) Validate(ctx context.Context, g *digraph.Graph) (string, error) {
	root, err := tree.Root(g)
	if err != nil {
		r.Logger.Debug("validation failed", "err", err)
		return "", errors.FromTree(err)
	}
	return root, nil
}

// Build builds the binary tree of g using the sibling ordering in opts.
func (r *Runner) Build(ctx context.Context, g *digraph.Graph, opts Options) (*tree.Tree, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	t, _, err := r.build(ctx, g, opts)
	return t, err
}

func (r *Runner) build(ctx context.Context, g *digraph.Graph, opts Options) (*tree.Tree, time.Duration, error) {
	hooks := observability.Tree()
	hooks.OnBuildStart(ctx, g.NodeCount())

	start := time.Now()
	t, err := tree.Build(g, opts.Less(g))
	elapsed := time.Since(start)

	hooks.OnBuildComplete(ctx, g.NodeCount(), elapsed, err)
	if err != nil {
		return nil, elapsed, errors.FromTree(err)
	}
	r.Logger.Debug("built binary tree", "root", t.Root(), "nodes", t.Len(), "duration", elapsed)
	return t, elapsed, nil
}

// Traverse builds the binary tree of g and walks it in opts.Order, either
// recursively or, with opts.Threaded, over the threaded tree. The tree is
// unthreaded again before Traverse returns.
func (r *Runner) Traverse(ctx context.Context, g *digraph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	graphHash, err := GraphHash(g)
	if err != nil {
		return nil, err
	}
	cacheKey := r.Keyer.TraversalKey(graphHash, opts.TraversalKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "traversal")
				cached.CacheHit = true
				return &cached, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "traversal")
	}

	t, buildTime, err := r.build(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	res := &Result{
		GraphHash: graphHash,
		Root:      t.Root(),
		Order:     opts.Order,
		Threaded:  opts.Threaded,
		Leaves:    t.Leaves(),
		Stats:     Stats{NodeCount: t.Len(), BuildTime: buildTime},
	}

	start := time.Now()
	res.Sequence, res.Threads = r.walk(ctx, t, opts)
	res.Stats.TraverseTime = time.Since(start)
	observability.Tree().OnTraverseComplete(ctx, opts.Order, opts.Threaded, len(res.Sequence), res.Stats.TraverseTime, nil)

	r.Logger.Debug("traversed tree",
		"order", opts.Order,
		"threaded", opts.Threaded,
		"visited", len(res.Sequence),
		"duration", res.Stats.TraverseTime)

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLTraversal); err == nil {
			observability.Cache().OnCacheSet(ctx, "traversal", len(data))
		} else {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return res, nil
}

// walk produces the node sequence of t and, for threaded walks, the threads
// the walk followed.
func (r *Runner) walk(ctx context.Context, t *tree.Tree, opts Options) ([]string, []Thread) {
	order := opts.TreeOrder()
	if !opts.Threaded {
		return tree.Collect(t.Traverse(order)), nil
	}

	t.Threadify(order)
	defer t.Unthreadify()

	threads := ConvertThreads(t.Threads())
	observability.Tree().OnThreadify(ctx, opts.Order, len(threads))
	return tree.Collect(t.TraverseWithThread(order)), threads
}

// ConvertThreads converts thread references to their serialisable form.
func ConvertThreads(threads []tree.Thread) []Thread {
	out := make([]Thread, len(threads))
	for i, th := range threads {
		out[i] = Thread{From: th.From, To: th.To, Side: th.Side.String()}
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
