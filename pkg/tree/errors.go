package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrMultipleParents is reported when a node has more than one incoming edge.
	ErrMultipleParents = errors.New("node has multiple parents")

	// ErrNoRoot is reported when no node is free of incoming edges, which
	// happens for fully cyclic and for empty graphs.
	ErrNoRoot = errors.New("graph has no root")

	// ErrMultipleRoots is reported when more than one node has no incoming
	// edge, i.e. the graph is a forest.
	ErrMultipleRoots = errors.New("graph has multiple roots")

	// ErrCycleDetected is reported when walking up the parent chain revisits
	// a node stamped during the same walk.
	ErrCycleDetected = errors.New("graph contains a cycle")

	// ErrTooManyChildren is reported when a node has more than two children.
	ErrTooManyChildren = errors.New("node has too many children")

	// ErrTreeBuildFailed is reported by [Engine] traversals when the most
	// recent build attempt failed. The original cause stays in the chain.
	ErrTreeBuildFailed = errors.New("tree build failed")
)

// NodeError attaches the offending node (and, for ErrTooManyChildren, the
// child count) to one of the sentinel errors above.
type NodeError struct {
	Err   error
	Node  string
	Count int
}

func (e *NodeError) Error() string {
	if errors.Is(e.Err, ErrTooManyChildren) {
		return fmt.Sprintf("%v: %s has %d children", e.Err, e.Node, e.Count)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Node)
}

func (e *NodeError) Unwrap() error { return e.Err }

// BuildError is returned by [Engine] when a traversal is requested after a
// failed build. It matches both ErrTreeBuildFailed and the original cause.
type BuildError struct {
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%v: %v", ErrTreeBuildFailed, e.Cause)
}

func (e *BuildError) Unwrap() []error { return []error{ErrTreeBuildFailed, e.Cause} }
