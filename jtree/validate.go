package jtree

import (
	"fmt"

	"github.com/crillab/gopherjt/subset"
)

// Validate checks that the tree is a junction tree: it is not empty, it is connected,
// it has no cycle and, for each variable, the nodes containing it form a connected subtree
// (the running intersection property). Any violation is reported as a *FormatError.
func (t *Tree) Validate() error {
	n := len(t.nodes)
	if n == 0 {
		return &FormatError{Msg: "tree has no node"}
	}
	if len(t.edges) != n-1 {
		return &FormatError{Msg: fmt.Sprintf("%d nodes need %d edges, got %d", n, n-1, len(t.edges))}
	}
	tr := t.traverse()
	if len(tr.preorder) != n {
		for i := range t.nodes {
			if i != t.root && tr.parent[i] == -1 {
				return &FormatError{Msg: fmt.Sprintf("node %d is not connected to node %d", i, t.root)}
			}
		}
	}
	// In a tree, the nodes containing v are connected iff they are linked by exactly
	// one edge less than their number. An edge links two of them iff its separator contains v.
	nbNodes := make(map[subset.Variable]int)
	for _, nd := range t.nodes {
		for _, v := range nd.vars {
			nbNodes[v]++
		}
	}
	nbEdges := make(map[subset.Variable]int)
	for _, e := range t.edges {
		for _, v := range e.sep {
			nbEdges[v]++
		}
	}
	for _, nd := range t.nodes {
		for _, v := range nd.vars {
			if nbEdges[v] != nbNodes[v]-1 {
				return &FormatError{Msg: fmt.Sprintf("nodes containing variable %d are not connected", v)}
			}
		}
	}
	return nil
}
