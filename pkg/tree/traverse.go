package tree

import "iter"

// Iterator walks a [Tree] in a fixed order, one node per call to Next:
//
//	it := t.Traverse(tree.InOrder)
//	for it.Next() {
//		fmt.Println(it.Node())
//	}
//
// Iterators obtained from [Tree.Traverse] keep an explicit stack in place of
// recursion. Iterators from [Tree.TraverseWithThread] keep only the current
// node. Mutating the tree while iterating is undefined.
type Iterator struct {
	tree     *Tree
	order    Order
	threaded bool

	stack   []frame
	cur     string
	started bool
	emitted int
}

// frame is one level of the simulated recursion.
type frame struct {
	id    string
	stage uint8
}

const (
	stageEnter uint8 = iota
	stageLeft
	stageMid
	stageRight
	stageExit
)

// Traverse returns an iterator producing the nodes in order using only the
// real children of each node. Threads are skipped, so the result is the same
// whether or not the tree is currently threaded.
func (t *Tree) Traverse(order Order) *Iterator {
	it := &Iterator{tree: t, order: order}
	it.Reset()
	return it
}

// TraverseWithThread returns an iterator that follows thread references and
// parent links instead of keeping a stack. The tree must be threaded for the
// same order by [Tree.Threadify]; it then yields exactly the sequence of
// [Tree.Traverse].
func (t *Tree) TraverseWithThread(order Order) *Iterator {
	it := &Iterator{tree: t, order: order, threaded: true}
	it.Reset()
	return it
}

// Order returns the order the iterator walks in.
func (it *Iterator) Order() Order { return it.order }

// Node returns the node reached by the last successful call to Next.
func (it *Iterator) Node() string { return it.cur }

// Reset rewinds the iterator to the start of the sequence.
func (it *Iterator) Reset() {
	it.cur, it.started, it.emitted = "", false, 0
	it.stack = it.stack[:0]
	if !it.threaded && it.tree.root != "" {
		it.stack = append(it.stack, frame{id: it.tree.root})
	}
}

// Next advances to the next node and reports whether there was one.
func (it *Iterator) Next() bool {
	// A tree threaded for another order could otherwise cycle.
	if it.emitted >= it.tree.Len() {
		it.cur = ""
		return false
	}
	if it.threaded {
		if !it.started {
			it.started = true
			it.cur = it.first()
		} else {
			it.cur = it.successor(it.cur)
		}
	} else {
		it.cur = it.pop()
	}
	if it.cur == "" {
		return false
	}
	it.emitted++
	return true
}

// All returns the whole sequence from the start as a range-over-func
// iterator. Each call rewinds the iterator.
func (it *Iterator) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		it.Reset()
		for it.Next() {
			if !yield(it.cur) {
				return
			}
		}
	}
}

// Collect drains it from the start into a slice.
func Collect(it *Iterator) []string {
	out := make([]string, 0, it.tree.Len())
	for id := range it.All() {
		out = append(out, id)
	}
	return out
}

// pop runs the simulated recursion until the next node is due.
func (it *Iterator) pop() string {
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		id := it.stack[top].id
		info := it.tree.infos[id]

		switch it.stack[top].stage {
		case stageEnter:
			it.stack[top].stage = stageLeft
			if it.order == PreOrder {
				return id
			}
		case stageLeft:
			it.stack[top].stage = stageMid
			if info.HasLeftChild() {
				it.stack = append(it.stack, frame{id: info.Left})
			}
		case stageMid:
			it.stack[top].stage = stageRight
			if it.order == InOrder {
				return id
			}
		case stageRight:
			it.stack[top].stage = stageExit
			if info.HasRightChild() {
				it.stack = append(it.stack, frame{id: info.Right})
			}
		default:
			it.stack = it.stack[:top]
			if it.order == PostOrder {
				return id
			}
		}
	}
	return ""
}

// first returns the first node of the threaded walk.
func (it *Iterator) first() string {
	root := it.tree.root
	if root == "" {
		return ""
	}
	switch it.order {
	case InOrder:
		return it.tree.leftmost(root)
	case PostOrder:
		return it.tree.lowest(root)
	}
	return root
}

// successor follows threads and parent links from id to the next node,
// returning "" past the end.
func (it *Iterator) successor(id string) string {
	t := it.tree
	info := t.infos[id]
	switch it.order {
	case PreOrder:
		if info.HasLeftChild() {
			return info.Left
		}
		return info.Right
	case InOrder:
		if info.HasRightChild() {
			return t.leftmost(info.Right)
		}
		return info.Right
	}

	if info.RightThread {
		return info.Right
	}
	if info.Parent == "" {
		return ""
	}
	parent := t.infos[info.Parent]
	if parent.HasLeftChild() && parent.Left == id && parent.HasRightChild() {
		return t.lowest(parent.Right)
	}
	return info.Parent
}

// leftmost descends real left children from id.
func (t *Tree) leftmost(id string) string {
	for t.infos[id].HasLeftChild() {
		id = t.infos[id].Left
	}
	return id
}

// lowest descends from id preferring left children, then right children,
// until it reaches a leaf: the first post-order node of the subtree.
func (t *Tree) lowest(id string) string {
	for {
		info := t.infos[id]
		switch {
		case info.HasLeftChild():
			id = info.Left
		case info.HasRightChild():
			id = info.Right
		default:
			return id
		}
	}
}
