/*
Package jtree finds the lowest-scoring joint assignments of a set of discrete variables
whose score decomposes over small overlapping subsets, using a junction tree.

A Tree is made of nodes, each bearing on a Subset of the variables and owning a ScoreTable,
and of edges between nodes. The separator of an edge is the intersection of the subsets of its
two nodes. A tree goes through the following states:

	Built -> Populated -> Inferred
	            ^             |
	            +-- Reset ----+

Reset takes an Inferred tree back to Populated, not Built: the realized scores are kept so
inference can run again, but nodes and edges can no longer be added. Build a new Tree to change
the structure.

Nodes and edges are added while the tree is Built. Populate then lists, for each node, the
assignments accepted by the filters, with a score of 0, and the tree becomes Populated. Score
contributions are added with Realize: each one goes to the smallest node covering its scope.

Infer runs a min-sum message passing: an upward pass where each node receives the
min-marginals of its children, then a downward pass where each child receives the min-marginal
of its parent. After that, the table of each node holds, for each of its assignments, the
lowest total score of a full assignment extending it. The k best assignments of the root are then
extended to full assignments (CombStates) by walking down the tree and choosing, at each child,
the best entry agreeing with what was already chosen.

Trees can also be read from and written to a simple text format:

	nodes:
	A B
	B C
	edges:
	0 1

The first section lists one node per line, as the names of its variables. The second one lists
one edge per line, as the indices of both its nodes.
*/
package jtree
