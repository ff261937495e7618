package jtree

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/crillab/gopherjt/subset"
)

// Options tune how a tree works.
type Options struct {
	// Parallel runs sibling subtrees on separate goroutines during inference.
	Parallel bool
	// Logger receives debug information. If nil, slog.Default() is used.
	Logger *slog.Logger
}

type node struct {
	vars  subset.Subset
	table *ScoreTable
	edges []int // Indices of incident edges, in insertion order.
}

type edge struct {
	a, b    int
	sep     subset.Subset
	message *ScoreTable // Latest min-marginal that went through the edge.
	pre     *ScoreTable // Separator table before the upward update.
	post    *ScoreTable // Separator table after the upward update.
}

// other returns the endpoint of e that is not n.
func (e *edge) other(n int) int {
	if e.a == n {
		return e.b
	}
	return e.a
}

// traversal is a depth-first view of the tree from its root.
type traversal struct {
	parent     []int   // Parent of each node; -1 for the root and unreached nodes.
	children   [][]int // Children of each node, in discovery order.
	childEdges [][]int // childEdges[n][i] links n to children[n][i].
	preorder   []int   // Reached nodes, each one after its parent.
}

// A Tree is a junction tree. Nodes and edges are referred to by their index, in creation order.
// A Tree is not safe for concurrent use.
type Tree struct {
	id     uuid.UUID
	opts   Options
	logger *slog.Logger
	state  State
	root   int
	nodes  []node
	edges  []edge
	trav   *traversal    // Cached; nil when the structure changed.
	base   []*ScoreTable // Node tables as they were before inference.
	minima []*CombState  // Result of the latest TopK.
}

// New returns an empty tree.
func New(opts Options) *Tree {
	t := &Tree{id: uuid.New(), opts: opts, logger: opts.Logger}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.logger = t.logger.With("tree", t.id.String())
	return t
}

// ID uniquely identifies the tree in logs and traces.
func (t *Tree) ID() uuid.UUID { return t.id }

// State returns the lifecycle state of the tree.
func (t *Tree) State() State { return t.state }

// NbNodes returns the number of nodes.
func (t *Tree) NbNodes() int { return len(t.nodes) }

// NbEdges returns the number of edges.
func (t *Tree) NbEdges() int { return len(t.edges) }

// Node returns the subset of node i. It panics if i is out of range.
func (t *Tree) Node(i int) subset.Subset { return t.nodes[i].vars }

// Edge returns both endpoints of edge i. It panics if i is out of range.
func (t *Tree) Edge(i int) (int, int) { return t.edges[i].a, t.edges[i].b }

// Separator returns the variables shared by both endpoints of edge i.
func (t *Tree) Separator(i int) subset.Subset { return t.edges[i].sep }

// Table returns the score table of node i, or nil before population.
func (t *Tree) Table(i int) *ScoreTable { return t.nodes[i].table }

// Message returns the latest min-marginal sent through edge i, or nil.
func (t *Tree) Message(i int) *ScoreTable { return t.edges[i].message }

// Root returns the index of the root node.
func (t *Tree) Root() int { return t.root }

// SetRoot chooses the node inference starts from. The default root is node 0.
func (t *Tree) SetRoot(i int) error {
	if t.state == Inferred {
		return &StateError{Op: "set root", State: t.state}
	}
	if i < 0 || i >= len(t.nodes) {
		return &RangeError{Msg: fmt.Sprintf("no node %d", i)}
	}
	t.root = i
	t.trav = nil
	return nil
}

// AddNode adds a node over s and returns its index. s must not be empty.
func (t *Tree) AddNode(s subset.Subset) (int, error) {
	if t.state != Built {
		return 0, &StateError{Op: "add node", State: t.state}
	}
	if len(s) == 0 {
		return 0, &RangeError{Msg: fmt.Sprintf("node %d has no variable", len(t.nodes))}
	}
	t.nodes = append(t.nodes, node{vars: s})
	t.trav = nil
	return len(t.nodes) - 1, nil
}

// AddEdge links nodes i and j and returns the index of the new edge.
func (t *Tree) AddEdge(i, j int) (int, error) {
	if t.state != Built {
		return 0, &StateError{Op: "add edge", State: t.state}
	}
	if err := t.checkEdge(i, j); err != nil {
		return 0, err
	}
	t.edges = append(t.edges, edge{a: i, b: j, sep: t.nodes[i].vars.Intersect(t.nodes[j].vars)})
	e := len(t.edges) - 1
	t.nodes[i].edges = append(t.nodes[i].edges, e)
	t.nodes[j].edges = append(t.nodes[j].edges, e)
	t.trav = nil
	return e, nil
}

func (t *Tree) checkEdge(i, j int) error {
	for _, n := range []int{i, j} {
		if n < 0 || n >= len(t.nodes) {
			return &RangeError{Msg: fmt.Sprintf("no node %d", n)}
		}
	}
	if i == j {
		return &RangeError{Msg: fmt.Sprintf("self-loop on node %d", i)}
	}
	for _, e := range t.nodes[i].edges {
		if t.edges[e].other(i) == j {
			return &RangeError{Msg: fmt.Sprintf("nodes %d and %d are already linked", i, j)}
		}
	}
	return nil
}

// traverse returns the depth-first view of the tree from its root.
func (t *Tree) traverse() *traversal {
	if t.trav != nil {
		return t.trav
	}
	n := len(t.nodes)
	tr := &traversal{
		parent:     make([]int, n),
		children:   make([][]int, n),
		childEdges: make([][]int, n),
		preorder:   make([]int, 0, n),
	}
	if n == 0 {
		t.trav = tr
		return tr
	}
	for i := range tr.parent {
		tr.parent[i] = -1
	}
	seen := make([]bool, n)
	seen[t.root] = true
	stack := []int{t.root}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		tr.preorder = append(tr.preorder, u)
		first := len(stack)
		for _, e := range t.nodes[u].edges {
			v := t.edges[e].other(u)
			if seen[v] {
				continue
			}
			seen[v] = true
			tr.parent[v] = u
			tr.children[u] = append(tr.children[u], v)
			tr.childEdges[u] = append(tr.childEdges[u], e)
			stack = append(stack, v)
		}
		// Visit children in discovery order.
		for l, r := first, len(stack)-1; l < r; l, r = l+1, r-1 {
			stack[l], stack[r] = stack[r], stack[l]
		}
	}
	t.trav = tr
	return tr
}
