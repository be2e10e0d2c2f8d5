// Package pkg provides the libraries behind threadtree.
//
// # Overview
//
// Threadtree takes a directed graph that claims to be a rooted tree, checks
// the claim, turns the tree into an explicit binary tree and walks it in pre-,
// in- or post-order. A tree can be threaded for one order, replacing empty
// child references with links to the traversal neighbours, so that the walk
// needs no stack.
//
//  1. [digraph] - Directed graph the tree is read from
//  2. [tree] - Validation, binary tree construction, threading and traversal
//  3. [io] - JSON and TOML graph files
//  4. [render] - Graphviz diagrams of binary trees and their threads
//  5. [pipeline] - Orchestration (build → traverse → render) with caching
//  6. [cache], [store] - Result cache and stored graphs
//  7. [server] - HTTP API
//
// # Architecture
//
//	graph file / API request
//	         ↓
//	    [io] package (decode into a [digraph.Graph])
//	         ↓
//	    [tree] package (validate, build, threadify, traverse)
//	         ↓
//	    [render/nodelink] package (DOT → SVG/PNG/PDF)
//
// # Quick Start
//
//	g, _ := io.ImportFile("tree.json")
//	t, err := tree.Build(g, tree.ByID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	t.Threadify(tree.InOrder)
//	for id := range t.TraverseWithThread(tree.InOrder).All() {
//	    fmt.Println(id)
//	}
//	t.Unthreadify()
package pkg
