package tree

import "slices"

// OrderFunc decides the horizontal order of two siblings a and b under parent.
// A negative result places a on the left; zero or positive places b on the left.
type OrderFunc func(a, b, parent string) int

// BinaryInfo is the binary-tree record of one node.
//
// Left and Right hold node IDs ("" for none). When LeftThread (RightThread)
// is set, Left (Right) is not a tree edge but a thread to the node's
// predecessor (successor) in the order the tree is threaded for. Parent is a
// plain ID lookup into the same [Tree], never an owning reference.
type BinaryInfo struct {
	Parent      string
	Left        string
	Right       string
	LeftThread  bool
	RightThread bool
}

// HasLeftChild reports whether Left is a real child and not a thread.
func (b *BinaryInfo) HasLeftChild() bool { return b.Left != "" && !b.LeftThread }

// HasRightChild reports whether Right is a real child and not a thread.
func (b *BinaryInfo) HasRightChild() bool { return b.Right != "" && !b.RightThread }

// IsLeaf reports whether the node has no real children.
func (b *BinaryInfo) IsLeaf() bool { return !b.HasLeftChild() && !b.HasRightChild() }

// Tree is a binary tree stored as an arena of [BinaryInfo] records keyed by
// node ID. The Tree owns every record; nodes refer to each other by ID only.
//
// A Tree is mutated in place by [Tree.Threadify] and [Tree.Unthreadify] and
// is not safe for concurrent use. It becomes stale as soon as the source
// graph's edges change and must then be rebuilt.
type Tree struct {
	root        string
	infos       map[string]*BinaryInfo
	order       []string // breadth-first build order
	threaded    bool
	threadOrder Order
}

// Root returns the root node ID.
func (t *Tree) Root() string { return t.root }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.infos) }

// Info returns the binary record of a node, or nil if id is not in the tree.
// The record is live: it reflects later threading.
func (t *Tree) Info(id string) *BinaryInfo { return t.infos[id] }

// Nodes returns the node IDs in breadth-first order from the root.
func (t *Tree) Nodes() []string { return slices.Clone(t.order) }

// ThreadedFor reports the order the tree is currently threaded for, if any.
func (t *Tree) ThreadedFor() (Order, bool) { return t.threadOrder, t.threaded }

// Build validates g with [Root] and converts it into a binary tree, using
// less to decide which of two siblings goes left.
func Build(g Graph, less OrderFunc) (*Tree, error) {
	root, err := Root(g)
	if err != nil {
		return nil, err
	}
	return BuildFrom(g, less, root)
}

// BuildFrom converts the tree rooted at root into a binary tree without
// validating it first. Callers must have obtained root from [Root].
//
// Any node with more than two children fails the whole build with
// ErrTooManyChildren. The tree is then walked breadth-first: a single child
// always becomes the left child and less is not consulted; for two children
// a and b, less(a, b, parent) < 0 yields (left=a, right=b) and anything else
// yields (left=b, right=a).
func BuildFrom(g Graph, less OrderFunc, root string) (*Tree, error) {
	for _, id := range g.NodeIDs() {
		if n := len(g.Children(id)); n > 2 {
			return nil, &NodeError{Err: ErrTooManyChildren, Node: id, Count: n}
		}
	}

	t := &Tree{
		root:  root,
		infos: map[string]*BinaryInfo{root: {}},
	}
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		t.order = append(t.order, id)
		info := t.infos[id]

		children := g.Children(id)
		switch len(children) {
		case 1:
			info.Left = children[0]
		case 2:
			a, b := children[0], children[1]
			if less(a, b, id) < 0 {
				info.Left, info.Right = a, b
			} else {
				info.Left, info.Right = b, a
			}
		default:
			continue
		}
		for _, child := range []string{info.Left, info.Right} {
			if child == "" {
				continue
			}
			t.infos[child] = &BinaryInfo{Parent: id}
			queue = append(queue, child)
		}
	}
	return t, nil
}
