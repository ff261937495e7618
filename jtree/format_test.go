package jtree

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/gopherjt/subset"
)

func newNames(t *testing.T, names ...string) *subset.Names {
	t.Helper()
	res := subset.NewNames()
	for i, name := range names {
		require.NoError(t, res.Add(name, subset.Variable(i)))
	}
	return res
}

func TestWriteParse(t *testing.T) {
	names := newNames(t, "A", "B", "C", "D")
	tree := New(Options{})
	for _, s := range []subset.Subset{subset.MustNew(0, 1), subset.MustNew(1, 2), subset.MustNew(2, 3)} {
		_, err := tree.AddNode(s)
		require.NoError(t, err)
	}
	_, err := tree.AddEdge(0, 1)
	require.NoError(t, err)
	_, err = tree.AddEdge(1, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tree, names))
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "chain", buf.Bytes())

	parsed, err := Parse(&buf, names, Options{})
	require.NoError(t, err)
	require.Equal(t, tree.NbNodes(), parsed.NbNodes())
	require.Equal(t, tree.NbEdges(), parsed.NbEdges())
	for i := 0; i < tree.NbNodes(); i++ {
		assert.Equal(t, tree.Node(i), parsed.Node(i))
	}
	for i := 0; i < tree.NbEdges(); i++ {
		a, b := tree.Edge(i)
		pa, pb := parsed.Edge(i)
		assert.Equal(t, [2]int{a, b}, [2]int{pa, pb})
		assert.Equal(t, tree.Separator(i), parsed.Separator(i))
	}
	assert.NotEqual(t, tree.ID(), parsed.ID())
}

func TestParseComments(t *testing.T) {
	names := newNames(t, "A", "B", "C")
	desc := `
# a chain
nodes:
  A B

B C
edges:
# the only edge
1 0
`
	tree, err := Parse(strings.NewReader(desc), names, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, tree.NbNodes())
	assert.Equal(t, subset.Subset{1}, tree.Separator(0))
	assert.Equal(t, Built, tree.State())
}

func TestParseErrors(t *testing.T) {
	names := newNames(t, "A", "B", "C")
	tests := []struct {
		name  string
		desc  string
		check func(error) bool
		line  int
	}{
		{"no nodes keyword", "A B\nedges:\n", IsFormatError, 1},
		{"no edges keyword", "nodes:\nA B\nB C\n", IsFormatError, 3},
		{"empty", "", IsFormatError, 0},
		{"nodes twice", "nodes:\nA\nnodes:\n", IsFormatError, 3},
		{"edges before nodes", "edges:\n", IsFormatError, 1},
		{"three tokens", "nodes:\nA B\nB C\nedges:\n0 1 2\n", IsFormatError, 5},
		{"one token", "nodes:\nA B\nB C\nedges:\n0\n", IsFormatError, 5},
		{"not an index", "nodes:\nA B\nB C\nedges:\n0 x\n", IsFormatError, 5},
		{"duplicate variable", "nodes:\nA A\nedges:\n", IsFormatError, 2},
		{"unknown name", "nodes:\nA Z\nedges:\n", IsRangeError, 2},
		{"index out of range", "nodes:\nA B\nB C\nedges:\n0 2\n", IsRangeError, 5},
		{"self-loop", "nodes:\nA B\nB C\nedges:\n1 1\n", IsRangeError, 5},
		{"duplicate edge", "nodes:\nA B\nB C\nedges:\n0 1\n1 0\n", IsRangeError, 6},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tree, err := Parse(strings.NewReader(test.desc), names, Options{})
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.True(t, test.check(err), "unexpected error type: %v", err)
			var fe *FormatError
			var re *RangeError
			switch {
			case errors.As(err, &fe):
				assert.Equal(t, test.line, fe.Line)
			case errors.As(err, &re):
				assert.Equal(t, test.line, re.Line)
			}
		})
	}
}
