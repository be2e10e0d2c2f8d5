// Package tree rebuilds binary trees from directed graphs and walks them
// with or without threads.
//
// # Pipeline
//
// A graph claimed to be a rooted tree goes through four steps:
//
//  1. [Root] validates the graph (one parent per node, a single root, no
//     cycles) and returns the root.
//  2. [Build] turns the tree into a [Tree] whose nodes have at most a left
//     and a right child. Which sibling goes left is decided by an
//     [OrderFunc] such as [ByID] or [ByKey].
//  3. [Tree.Threadify] optionally replaces each missing child reference with
//     a thread to the node's predecessor or successor in a chosen [Order].
//  4. [Tree.Traverse] and [Tree.TraverseWithThread] produce the node sequence.
//
// [Tree.Unthreadify] undoes step 3 exactly.
//
// # Threaded walks
//
// On a threaded tree the pre-order and in-order walks only ever step along
// child or thread references. The post-order walk additionally climbs
// [BinaryInfo.Parent] links: after a node that is the left child of a parent
// with a right subtree, it descends to the lowest node of that subtree;
// otherwise it moves up to the parent. The walk ends at the root, which has no
// parent. No stack is needed in any of the three orders.
//
// # Errors
//
// Validation and build failures are reported with the sentinels
// [ErrMultipleParents], [ErrNoRoot], [ErrMultipleRoots], [ErrCycleDetected]
// and [ErrTooManyChildren], wrapped in a [*NodeError] where a node is at fault:
//
//	if errors.Is(err, tree.ErrTooManyChildren) {
//		var ne *tree.NodeError
//		errors.As(err, &ne)
//		log.Printf("%s has %d children", ne.Node, ne.Count)
//	}
//
// [Engine] caches the last build and reports later traversal requests with
// [ErrTreeBuildFailed]. Threading and traversal never fail; calling them on
// a tree that was not produced by [Build] is undefined.
//
// # Concurrency
//
// Trees are mutated in place and are not safe for concurrent use. Do not
// traverse while threading or unthreading, and do not thread one tree for
// two orders at once.
package tree
