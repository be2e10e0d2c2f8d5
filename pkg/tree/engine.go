package tree

// Engine owns the binary tree derived from a graph and rebuilds it lazily.
//
// The result of the last build, tree or error, is kept until [Engine.Invalidate]
// is called, which callers must do whenever the graph's nodes or edges change.
// Traversals requested after a failed build return a [*BuildError] carrying
// the original cause. An Engine is not safe for concurrent use.
type Engine struct {
	graph Graph
	less  OrderFunc

	tree     *Tree
	err      error
	upToDate bool
}

// NewEngine returns an engine over g that assigns siblings with less.
func NewEngine(g Graph, less OrderFunc) *Engine {
	if less == nil {
		less = ByID
	}
	return &Engine{graph: g, less: less}
}

// Invalidate discards the current tree so the next call rebuilds it.
func (e *Engine) Invalidate() {
	e.tree, e.err, e.upToDate = nil, nil, false
}

// SetOrdering replaces the sibling ordering and invalidates the tree.
func (e *Engine) SetOrdering(less OrderFunc) {
	if less == nil {
		less = ByID
	}
	e.less = less
	e.Invalidate()
}

// Tree returns the binary tree, building it on first use. The build error,
// if any, is returned unchanged and remembered for later traversals.
func (e *Engine) Tree() (*Tree, error) {
	if !e.upToDate {
		e.tree, e.err = Build(e.graph, e.less)
		e.upToDate = true
	}
	return e.tree, e.err
}

// Err returns the error of the most recent build, building first if needed.
func (e *Engine) Err() error {
	_, err := e.Tree()
	return err
}

// Traverse returns a recursive-order iterator over the current tree.
func (e *Engine) Traverse(order Order) (*Iterator, error) {
	t, err := e.Tree()
	if err != nil {
		return nil, &BuildError{Cause: err}
	}
	return t.Traverse(order), nil
}

// WithThreads threads the tree for order, runs fn and unthreads the tree
// again, even when fn fails. fn must not retain t.
func (e *Engine) WithThreads(order Order, fn func(t *Tree) error) error {
	t, err := e.Tree()
	if err != nil {
		return &BuildError{Cause: err}
	}
	t.Threadify(order)
	defer t.Unthreadify()
	return fn(t)
}

// WalkThreaded threads the tree for order and calls visit for every node of
// the threaded walk until visit returns false. The tree is unthreaded before
// WalkThreaded returns.
func (e *Engine) WalkThreaded(order Order, visit func(id string) bool) error {
	return e.WithThreads(order, func(t *Tree) error {
		for id := range t.TraverseWithThread(order).All() {
			if !visit(id) {
				break
			}
		}
		return nil
	})
}
