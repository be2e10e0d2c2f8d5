// Package io reads and writes graph files for the tree tools.
//
// # Formats
//
// JSON has two top-level arrays:
//
//	{
//	  "nodes": [{"id": "A"}, {"id": "B", "x": 40}, {"id": "C", "x": 120}],
//	  "edges": [{"from": "A", "to": "B"}, {"from": "A", "to": "C"}]
//	}
//
// TOML uses arrays of tables with the same fields:
//
//	[[nodes]]
//	id = "A"
//
//	[[nodes]]
//	id = "B"
//	x = 40.0
//
//	[[edges]]
//	from = "A"
//	to = "B"
//
// The optional "x" is the node's horizontal position, stored as
// digraph.MetaX and used by the position ordering policy. Any other node
// data goes in "meta".
//
// [ImportFile] and [ExportFile] pick the format from the file extension
// (.json, .toml). Nothing in this package checks that the graph is a tree;
// that is left to tree.Root so the caller gets a precise error.
package io
