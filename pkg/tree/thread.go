package tree

// Threadify replaces every missing child reference with a thread for order:
// a missing left child becomes a thread to the node's predecessor and a
// missing right child a thread to its successor.
//
// The first node in the order has no predecessor and keeps a plain empty left
// reference. For PreOrder and InOrder the last node's RightThread is set with
// an empty Right, marking the end of the sequence. PostOrder leaves the last
// node (always the root) untouched: the threaded walk stops on reaching a
// node without a parent.
//
// A tree holds threads for a single order at a time; call [Tree.Unthreadify]
// before threading for another order. Threading an already threaded tree
// is undefined.
func (t *Tree) Threadify(order Order) {
	var prior string
	t.threadify(t.root, &prior, order)
	if order != PostOrder && prior != "" {
		t.infos[prior].RightThread = true
	}
	t.threaded, t.threadOrder = true, order
}

func (t *Tree) threadify(id string, prior *string, order Order) {
	info := t.infos[id]
	if order == PreOrder {
		t.visitThread(id, prior)
	}
	if info.HasLeftChild() {
		t.threadify(info.Left, prior, order)
	}
	if order == InOrder {
		t.visitThread(id, prior)
	}
	if info.HasRightChild() {
		t.threadify(info.Right, prior, order)
	}
	if order == PostOrder {
		t.visitThread(id, prior)
	}
}

// visitThread links id with the node visited just before it.
func (t *Tree) visitThread(id string, prior *string) {
	info := t.infos[id]
	if *prior != "" {
		if info.Left == "" && !info.LeftThread {
			info.Left, info.LeftThread = *prior, true
		}
		if p := t.infos[*prior]; p.Right == "" && !p.RightThread {
			p.Right, p.RightThread = id, true
		}
	}
	*prior = id
}

// Unthreadify removes all threads, restoring the tree built by [Build].
// It must be called on a tree threaded by [Tree.Threadify].
func (t *Tree) Unthreadify() {
	t.unthreadify(t.root)
	t.threaded = false
}

func (t *Tree) unthreadify(id string) {
	info := t.infos[id]
	if info.LeftThread {
		info.Left, info.LeftThread = "", false
	} else if info.Left != "" {
		t.unthreadify(info.Left)
	}
	if info.RightThread {
		info.Right, info.RightThread = "", false
	} else if info.Right != "" {
		t.unthreadify(info.Right)
	}
}

// Side names which reference of a node a thread occupies.
type Side uint8

const (
	// LeftSide is the predecessor thread slot.
	LeftSide Side = iota
	// RightSide is the successor thread slot.
	RightSide
)

func (s Side) String() string {
	if s == LeftSide {
		return "left"
	}
	return "right"
}

// Thread is a materialised thread reference from one node to another.
type Thread struct {
	From string
	To   string
	Side Side
}

// Threads lists the thread references of a threaded tree breadth-first from
// the root, left side before right side. Empty thread references (the end
// marker) are skipped. An unthreaded tree has no threads.
func (t *Tree) Threads() []Thread {
	var threads []Thread
	queue := []string{t.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		info := t.infos[id]
		if info.LeftThread && info.Left != "" {
			threads = append(threads, Thread{From: id, To: info.Left, Side: LeftSide})
		} else if info.HasLeftChild() {
			queue = append(queue, info.Left)
		}
		if info.RightThread && info.Right != "" {
			threads = append(threads, Thread{From: id, To: info.Right, Side: RightSide})
		} else if info.HasRightChild() {
			queue = append(queue, info.Right)
		}
	}
	return threads
}

// Leaves returns the nodes without real children in breadth-first order.
func (t *Tree) Leaves() []string {
	var leaves []string
	for _, id := range t.order {
		if t.infos[id].IsLeaf() {
			leaves = append(leaves, id)
		}
	}
	return leaves
}
