package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crillab/gopherjt/subset"
)

var counts = subset.StateCounts{1: 3, 2: 2, 3: 5}

func TestForbiddenIsOK(t *testing.T) {
	f := NewForbidden(counts)
	require.NoError(t, f.Add(subset.MustNew(1, 2), subset.Assignment{1, 1}))
	require.Error(t, f.Add(subset.MustNew(1, 2), subset.Assignment{3, 0}))
	require.Error(t, f.Add(subset.Subset{}, subset.Assignment{}))

	flt := f.Filter(subset.MustNew(2, 1), nil)
	require.NotNil(t, flt)
	assert.False(t, flt.IsOK(subset.Assignment{1, 1}))
	assert.True(t, flt.IsOK(subset.Assignment{0, 1}))
	assert.True(t, flt.IsOK(subset.Assignment{1, 0}))

	assert.Nil(t, f.Filter(subset.MustNew(1, 3), nil), "scope not included")
	assert.Nil(t, f.Filter(subset.MustNew(1, 2, 3), []subset.Subset{subset.MustNew(1, 2)}), "scope already checked")
	assert.NotNil(t, f.Filter(subset.MustNew(1, 2, 3), []subset.Subset{subset.MustNew(1, 3)}))
}

func TestForbiddenNextState(t *testing.T) {
	f := NewForbidden(counts)
	s := subset.MustNew(1, 3)
	require.NoError(t, f.Add(s,
		subset.Assignment{0, 0}, subset.Assignment{0, 1}, subset.Assignment{0, 2}, subset.Assignment{2, 4}))
	flt := f.Filter(s, nil)

	assert.Equal(t, 3, flt.NextState(1, subset.Assignment{0, 0}), "skips over 1 and 2")
	assert.Equal(t, 3, flt.NextState(1, subset.Assignment{0, 1}))
	assert.Equal(t, 5, flt.NextState(1, subset.Assignment{2, 4}), "past the last state")
	assert.Equal(t, 1, flt.NextState(0, subset.Assignment{0, 0}))

	g := NewForbidden(counts)
	require.NoError(t, g.Add(subset.MustNew(1), subset.Assignment{2}))
	require.NoError(t, g.Add(subset.MustNew(3), subset.Assignment{0}))
	flt = g.Filter(subset.MustNew(1, 3), nil)
	assert.Equal(t, math.MaxInt, flt.NextState(1, subset.Assignment{2, 0}), "position 1 cannot fix variable 1")
}

func TestForbiddenMerge(t *testing.T) {
	f := NewForbidden(counts)
	s := subset.MustNew(1, 2)
	require.NoError(t, f.Add(s, subset.Assignment{0, 0}))
	require.NoError(t, f.Add(s, subset.Assignment{0, 1}))
	require.Len(t, f.sets, 1)
	assert.Len(t, f.sets[0].tuples, 2)
	assert.InDelta(t, 2.0/6.0, f.Strength(s, nil), 1e-9)
	assert.Zero(t, f.Strength(s, []subset.Subset{s}))
}

func TestThreshold(t *testing.T) {
	sum := subset.ScorerFunc(func(_ subset.Subset, a subset.Assignment) float64 {
		return float64(a[0] + a[1])
	})
	th := NewThreshold()
	th.Add(subset.MustNew(1, 3), sum, 3)

	flt := th.Filter(subset.MustNew(3, 2, 1), nil)
	require.NotNil(t, flt)
	assert.True(t, flt.IsOK(subset.Assignment{2, 0, 1}))
	assert.False(t, flt.IsOK(subset.Assignment{3, 0, 1}))
	assert.Equal(t, 4, flt.NextState(0, subset.Assignment{3, 0, 1}))
	assert.InDelta(t, 0.5, th.Strength(subset.MustNew(1, 3), nil), 1e-9)
	assert.Zero(t, th.Strength(subset.MustNew(1, 2), nil))
}

func TestJoin(t *testing.T) {
	f := NewForbidden(counts)
	require.NoError(t, f.Add(subset.MustNew(1), subset.Assignment{0}, subset.Assignment{1}))
	g := NewForbidden(counts)
	require.NoError(t, g.Add(subset.MustNew(1, 2), subset.Assignment{2, 0}))
	tables := []Table{f, g}
	s := subset.MustNew(1, 2)

	flt := Join(tables, s, nil)
	require.NotNil(t, flt)
	assert.False(t, flt.IsOK(subset.Assignment{0, 1}))
	assert.False(t, flt.IsOK(subset.Assignment{2, 0}))
	assert.True(t, flt.IsOK(subset.Assignment{2, 1}))
	assert.Equal(t, 2, flt.NextState(0, subset.Assignment{0, 0}), "farthest jump wins")

	assert.Nil(t, Join(tables, subset.MustNew(3), nil))
	assert.Same(t, g.Filter(s, nil).(forbiddenFilter)[0].set, Join(tables, s, []subset.Subset{subset.MustNew(1)}).(forbiddenFilter)[0].set)
	assert.InDelta(t, f.Strength(s, nil)+g.Strength(s, nil), Strength(tables, s, nil), 1e-9)
}

func TestUnit(t *testing.T) {
	f := NewForbidden(counts)
	require.NoError(t, f.Add(subset.MustNew(3), subset.Assignment{0}, subset.Assignment{1}, subset.Assignment{2}))
	u := Unit(f)
	flt := u.Filter(subset.MustNew(3), nil)
	require.NotNil(t, flt)
	assert.False(t, flt.IsOK(subset.Assignment{0}))
	assert.Equal(t, 1, flt.NextState(0, subset.Assignment{0}))
	assert.Equal(t, 3, f.Filter(subset.MustNew(3), nil).NextState(0, subset.Assignment{0}))
	assert.Nil(t, u.Filter(subset.MustNew(1), nil))
	assert.Equal(t, f.Strength(subset.MustNew(3), nil), u.Strength(subset.MustNew(3), nil))
}
