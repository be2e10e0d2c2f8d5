package tree

// Graph is the view of a directed graph the tree algorithms need.
// NodeIDs must list every node exactly once; Children lists the targets of a
// node's outgoing edges. Both should be deterministic for reproducible errors.
type Graph interface {
	NodeIDs() []string
	Children(id string) []string
}

// nodeRecord is the scratch state kept per node while validating.
type nodeRecord struct {
	parent    string
	hasParent bool
	tag       int
}

// Root checks that g is a simple rooted tree and returns its root.
//
// Every edge is scanned once to record parents; a second incoming edge fails
// with ErrMultipleParents. Exactly one parentless node must remain
// (ErrNoRoot, ErrMultipleRoots otherwise). Finally each node's parent chain
// is walked, stamping nodes with a per-walk tag: meeting the current tag again
// means a cycle (ErrCycleDetected), meeting an older tag means the rest of the
// chain was already proven acyclic. The graph itself is not modified.
func Root(g Graph) (string, error) {
	ids := g.NodeIDs()
	records := make(map[string]*nodeRecord, len(ids))
	for _, id := range ids {
		records[id] = &nodeRecord{}
	}

	for _, from := range ids {
		for _, to := range g.Children(from) {
			rec, ok := records[to]
			if !ok {
				// Edge into a node the graph does not list: treat it as
				// a node of its own so the walk below still sees it.
				rec = &nodeRecord{}
				records[to] = rec
				ids = append(ids, to)
			}
			if rec.hasParent {
				return "", &NodeError{Err: ErrMultipleParents, Node: to}
			}
			rec.parent, rec.hasParent = from, true
		}
	}

	var root string
	roots := 0
	for _, id := range ids {
		if !records[id].hasParent {
			if roots == 0 {
				root = id
			}
			roots++
		}
	}
	switch {
	case roots == 0:
		return "", ErrNoRoot
	case roots > 1:
		return "", ErrMultipleRoots
	}

	tag := 0
	for _, id := range ids {
		if records[id].tag > 0 {
			continue
		}
		tag++
		for cur := id; ; {
			rec := records[cur]
			if rec.tag == tag {
				return "", &NodeError{Err: ErrCycleDetected, Node: cur}
			}
			if rec.tag > 0 {
				break
			}
			rec.tag = tag
			if !rec.hasParent {
				break
			}
			cur = rec.parent
		}
	}
	return root, nil
}
