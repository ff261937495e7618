package jtree

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/gopherjt/enum"
	"github.com/crillab/gopherjt/filter"
	"github.com/crillab/gopherjt/subset"
)

var absDiff = subset.ScorerFunc(func(_ subset.Subset, a subset.Assignment) float64 {
	return math.Abs(float64(a[0] - a[1]))
})

// chain returns the tree A B - B C with |a-b| + |b-c| realized.
func chain(t *testing.T, opts Options) *Tree {
	t.Helper()
	tree := build(t, opts, []subset.Subset{subset.MustNew(0, 1), subset.MustNew(1, 2)}, [2]int{0, 1})
	populate(t, tree, subset.StateCounts{0: 3, 1: 3, 2: 3})
	require.NoError(t, tree.RealizeAll(
		Term{Scope: subset.MustNew(0, 1), Scorer: absDiff, Weight: 1},
		Term{Scope: subset.MustNew(1, 2), Scorer: absDiff, Weight: 1},
	))
	return tree
}

func TestLifecycle(t *testing.T) {
	ctx := context.Background()
	tree := build(t, Options{}, []subset.Subset{subset.MustNew(0, 1), subset.MustNew(1, 2)}, [2]int{0, 1})
	assert.Equal(t, Built, tree.State())
	_, err := tree.GetMinimum(0)
	assert.True(t, IsStateError(err))
	assert.True(t, IsStateError(tree.Infer(ctx, 1)), "not populated")
	assert.True(t, IsStateError(tree.Realize(subset.MustNew(0), absDiff, 1)))
	_, err = tree.Energy(NewCombState())
	assert.True(t, IsStateError(err))

	populate(t, tree, subset.StateCounts{0: 2, 1: 2, 2: 2})
	assert.Equal(t, Populated, tree.State())
	_, err = tree.AddNode(subset.MustNew(3))
	assert.True(t, IsStateError(err))
	_, err = tree.AddEdge(0, 1)
	assert.True(t, IsStateError(err))
	assert.True(t, IsStateError(tree.Populate(ctx, enum.NewBruteForce(enum.Config{}), 0)))
	_, err = tree.GetMinimum(0)
	assert.True(t, IsStateError(err), "minimum before inference")
	assert.True(t, IsRangeError(tree.Infer(ctx, 0)))

	require.NoError(t, tree.Infer(ctx, 1))
	assert.Equal(t, Inferred, tree.State())
	assert.True(t, IsStateError(tree.Infer(ctx, 1)), "inferred twice")
	assert.True(t, IsStateError(tree.Realize(subset.MustNew(0), absDiff, 1)))
	assert.True(t, IsStateError(tree.SetRoot(1)))
	_, err = tree.GetMinimum(1)
	assert.True(t, IsRangeError(err))

	tree.Reset()
	assert.Equal(t, Populated, tree.State())
	assert.Nil(t, tree.Message(0))
	_, err = tree.AddNode(subset.MustNew(3))
	assert.True(t, IsStateError(err), "structure is frozen after reset")
	_, err = tree.GetMinimum(0)
	assert.True(t, IsStateError(err))
	require.NoError(t, tree.Infer(ctx, 1), "inference after reset")
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	tree := chain(t, Options{})
	require.NoError(t, tree.Infer(ctx, 1))
	require.Equal(t, 1, tree.NbMinima())
	best, err := tree.GetMinimum(0)
	require.NoError(t, err)
	assert.Zero(t, best.Score())
	assert.Equal(t, 3, best.Len())
	a, _ := best.Get(0)
	b, _ := best.Get(1)
	c, _ := best.Get(2)
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)

	minima, err := tree.TopK(ctx, 4)
	require.NoError(t, err)
	require.Len(t, minima, 4)
	seen := make(map[string]bool)
	for i, m := range minima[:3] {
		assert.Zero(t, m.Score())
		s, ok := m.Project(subset.MustNew(0, 1, 2))
		require.True(t, ok)
		assert.Equal(t, subset.Assignment{i, i, i}, s)
		seen[s.Key()] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, 1.0, minima[3].Score())
	energy, err := tree.Energy(minima[3])
	require.NoError(t, err)
	assert.Equal(t, 1.0, energy)

	pre, post := tree.SeparatorTables(0)
	require.NotNil(t, pre)
	require.NotNil(t, post)
	assert.Equal(t, subset.MustNew(1), pre.Subset())
	require.Equal(t, 3, pre.Len())
	require.Equal(t, 3, post.Len())
	for b := 0; b < 3; b++ {
		score, ok := pre.Score(subset.Assignment{b})
		require.True(t, ok)
		assert.Zero(t, score, "|a-b| alone is 0 for a=b")
		score, ok = post.Score(subset.Assignment{b})
		require.True(t, ok)
		assert.Zero(t, score, "|b-c| alone is 0 for c=b")
	}
}

func TestRealize(t *testing.T) {
	tree := build(t, Options{}, []subset.Subset{subset.MustNew(0, 1, 2), subset.MustNew(0, 1), subset.MustNew(1, 0)},
		[2]int{0, 1}, [2]int{0, 2})
	populate(t, tree, subset.StateCounts{0: 2, 1: 2, 2: 2})
	first := subset.ScorerFunc(func(_ subset.Subset, a subset.Assignment) float64 { return float64(a[0]) })

	require.NoError(t, tree.Realize(subset.MustNew(0), first, 2))
	score, ok := tree.Table(1).Score(subset.Assignment{1, 0})
	require.True(t, ok)
	assert.Equal(t, 2.0, score, "smallest covering node with the lowest index")
	score, _ = tree.Table(2).Score(subset.Assignment{0, 1})
	assert.Zero(t, score)
	score, _ = tree.Table(0).Score(subset.Assignment{1, 0, 0})
	assert.Zero(t, score)

	assert.True(t, IsRangeError(tree.Realize(subset.MustNew(3), first, 1)), "no covering node")

	never := subset.ScorerFunc(func(subset.Subset, subset.Assignment) float64 { return math.Inf(1) })
	require.NoError(t, tree.Realize(subset.MustNew(2), never, 0))
	assert.Zero(t, tree.Table(0).Valid())
}

func TestInconsistent(t *testing.T) {
	ctx := context.Background()
	tree := chain(t, Options{})
	never := subset.ScorerFunc(func(_ subset.Subset, a subset.Assignment) float64 {
		if a[0] == a[1] {
			return math.Inf(1)
		}
		return 0
	})
	require.NoError(t, tree.Realize(subset.MustNew(2, 1), never, 1))
	none := subset.ScorerFunc(func(_ subset.Subset, a subset.Assignment) float64 {
		if a[0] != a[1] {
			return math.Inf(1)
		}
		return 0
	})
	require.NoError(t, tree.Realize(subset.MustNew(1, 2), none, 1))

	err := tree.Infer(ctx, 2)
	require.Error(t, err)
	assert.True(t, IsConsistencyError(err))
	assert.Equal(t, Inferred, tree.State())
	assert.NotNil(t, tree.Message(0), "messages are kept")
	_, err = tree.TopK(ctx, 1)
	assert.True(t, IsConsistencyError(err))
	_, err = tree.GetMinimum(0)
	assert.True(t, IsRangeError(err))
}

func TestInvalidTree(t *testing.T) {
	tree := build(t, Options{},
		[]subset.Subset{subset.MustNew(0, 1), subset.MustNew(1, 2), subset.MustNew(0, 2)}, [2]int{0, 1}, [2]int{1, 2})
	populate(t, tree, subset.StateCounts{0: 2, 1: 2, 2: 2})
	err := tree.Infer(context.Background(), 1)
	assert.True(t, IsFormatError(err))
	assert.Equal(t, Populated, tree.State())
}

func TestCapacity(t *testing.T) {
	tree := build(t, Options{}, []subset.Subset{subset.MustNew(0, 1), subset.MustNew(1)}, [2]int{0, 1})
	e := enum.NewBruteForce(enum.Config{Counts: subset.StateCounts{0: 3, 1: 3}})
	err := tree.Populate(context.Background(), e, 4)
	require.Error(t, err)
	assert.True(t, enum.IsCapacityWarning(err))
	assert.Equal(t, Populated, tree.State())
	assert.Equal(t, 4, tree.Table(0).Len())
	assert.Equal(t, 3, tree.Table(1).Len())
	require.NoError(t, tree.Infer(context.Background(), 1))
}

func TestCancel(t *testing.T) {
	tree := chain(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tree.Infer(ctx, 1), context.Canceled)
	assert.Equal(t, Populated, tree.State())
	score, _ := tree.Table(0).Score(subset.Assignment{0, 2})
	assert.Equal(t, 2.0, score, "tables are restored")
	require.NoError(t, tree.Infer(context.Background(), 1))
}

func TestStar(t *testing.T) {
	ctx := context.Background()
	center := subset.MustNew(0, 1, 2)
	leaves := []subset.Subset{subset.MustNew(0, 3), subset.MustNew(4, 1), subset.MustNew(2, 5)}
	counts := subset.StateCounts{0: 3, 1: 2, 2: 3, 3: 2, 4: 3, 5: 2}
	rng := rand.New(rand.NewSource(3))
	for _, parallel := range []bool{false, true} {
		tree := build(t, Options{Parallel: parallel}, append([]subset.Subset{center}, leaves...),
			[2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
		populate(t, tree, counts)
		for i := 0; i < tree.NbNodes(); i++ {
			require.NoError(t, tree.Realize(tree.Node(i), randomScorer(rng), 1))
		}
		require.NoError(t, tree.Infer(ctx, 6))
		prev := math.Inf(-1)
		for i := 0; i < tree.NbMinima(); i++ {
			m, err := tree.GetMinimum(i)
			require.NoError(t, err)
			assert.Equal(t, subset.Subset{0, 1, 2, 3, 4, 5}, m.Variables().Sorted())
			assert.Equal(t, center, m.Variables()[:3], "root variables come first")
			for _, leaf := range leaves {
				_, ok := m.Project(leaf)
				assert.True(t, ok)
			}
			energy, err := tree.Energy(m)
			require.NoError(t, err)
			assert.Equal(t, m.Score(), energy)
			assert.GreaterOrEqual(t, m.Score(), prev)
			prev = m.Score()
		}
	}
}

// randomScorer returns a scorer giving a random integer score in [0, 10) to each assignment.
func randomScorer(rng *rand.Rand) subset.Scorer {
	scores := make(map[string]float64)
	return subset.ScorerFunc(func(_ subset.Subset, a subset.Assignment) float64 {
		key := a.Key()
		if _, ok := scores[key]; !ok {
			scores[key] = float64(rng.Intn(10))
		}
		return scores[key]
	})
}

type shape struct {
	nodes []subset.Subset
	edges [][2]int
}

var shapes = []shape{
	{
		nodes: []subset.Subset{subset.MustNew(0, 1), subset.MustNew(1, 2), subset.MustNew(2, 3), subset.MustNew(3, 4)},
		edges: [][2]int{{0, 1}, {1, 2}, {2, 3}},
	},
	{
		nodes: []subset.Subset{subset.MustNew(0, 1, 2), subset.MustNew(0, 3), subset.MustNew(1, 4), subset.MustNew(2, 5)},
		edges: [][2]int{{0, 1}, {0, 2}, {0, 3}},
	},
	{
		nodes: []subset.Subset{subset.MustNew(0, 1, 2), subset.MustNew(3, 2, 1), subset.MustNew(3, 4), subset.MustNew(2, 5)},
		edges: [][2]int{{1, 2}, {0, 1}, {3, 0}},
	},
}

// TestBruteForce compares inference with an exhaustive search on random problems.
func TestBruteForce(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 60; i++ {
		sh := shapes[i%len(shapes)]
		var all subset.Subset
		for _, s := range sh.nodes {
			all = all.Union(s)
		}
		counts := make(subset.StateCounts)
		for _, v := range all {
			counts[v] = 2 + rng.Intn(2)
		}
		forbidden := filter.NewForbidden(counts)
		for _, s := range sh.nodes {
			n := subset.Product(counts, s)
			for j := 0; j < n/4; j++ {
				a := make(subset.Assignment, len(s))
				for k, v := range s {
					a[k] = rng.Intn(counts[v])
				}
				require.NoError(t, forbidden.Add(s, a))
			}
		}
		cfg := enum.Config{Counts: counts, Tables: []filter.Table{forbidden}}
		tree := build(t, Options{Parallel: i%2 == 1}, sh.nodes, sh.edges...)
		require.NoError(t, tree.SetRoot(i%len(sh.nodes)))
		require.NoError(t, tree.Populate(ctx, enum.NewOrdered(cfg), 0))
		for _, s := range sh.nodes {
			require.NoError(t, tree.Realize(s, randomScorer(rng), 1))
		}
		err := tree.Infer(ctx, 3)

		sink := enum.NewSink(0)
		require.NoError(t, enum.NewBruteForce(cfg).Enumerate(ctx, all, sink))
		best := math.Inf(1)
		for _, a := range sink.Assignments() {
			cs := NewCombState()
			cs.Extend(all, a)
			energy, err := tree.Energy(cs)
			require.NoError(t, err)
			best = math.Min(best, energy)
		}
		if math.IsInf(best, 1) {
			assert.True(t, IsConsistencyError(err), "problem #%d: %v", i, err)
			continue
		}
		require.NoError(t, err, "problem #%d", i)
		prev := best
		for j := 0; j < tree.NbMinima(); j++ {
			m, err := tree.GetMinimum(j)
			require.NoError(t, err)
			if j == 0 {
				assert.Equal(t, best, m.Score(), "problem #%d", i)
			}
			assert.GreaterOrEqual(t, m.Score(), prev)
			prev = m.Score()
			energy, err := tree.Energy(m)
			require.NoError(t, err)
			assert.Equal(t, m.Score(), energy, "problem #%d, minimum %d", i, j)
		}
	}
}
