package subset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New(3, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, Subset{3, 1, 2}, s)

	_, err = New(1, 2, 1)
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, Variable(1), dup.Var)

	assert.Panics(t, func() { MustNew(4, 4) })
}

func TestSetOperations(t *testing.T) {
	a := MustNew(1, 2, 3, 4)
	b := MustNew(5, 3, 1)

	assert.Equal(t, Subset{1, 3}, a.Intersect(b))
	assert.Equal(t, Subset{3, 1}, b.Intersect(a))
	assert.Equal(t, Subset{1, 2, 3, 4, 5}, a.Union(b))
	assert.Equal(t, Subset{2, 4}, a.Minus(b))
	assert.Equal(t, 2, a.IndexOf(3))
	assert.Equal(t, -1, a.IndexOf(5))
	assert.True(t, MustNew(3, 1).IsSubsetOf(a))
	assert.False(t, b.IsSubsetOf(a))
	assert.True(t, MustNew(4, 3, 2, 1).Equal(a))
	assert.False(t, MustNew(1, 2, 3).Equal(a))
	assert.Equal(t, Subset{1, 3, 5}, b.Sorted())
	assert.Equal(t, "[5 3 1]", b.String())
}

func TestProject(t *testing.T) {
	s := MustNew(10, 20, 30)
	a := Assignment{0, 1, 2}

	assert.Equal(t, Assignment{2, 0}, s.Project(a, MustNew(30, 10)))
	assert.Equal(t, Assignment{1}, s.Project(a, MustNew(20)))
	assert.Equal(t, Assignment{}, s.Project(a, Subset{}))
	assert.Panics(t, func() { s.Project(a, MustNew(40)) })

	pos := s.Positions(MustNew(20, 30))
	assert.Equal(t, []int{1, 2}, pos)
	assert.Equal(t, Assignment{1, 2}, ProjectWith(a, pos))
}

func TestAssignmentKey(t *testing.T) {
	assert.Equal(t, "1,12,3", Assignment{1, 12, 3}.Key())
	assert.NotEqual(t, Assignment{1, 12}.Key(), Assignment{11, 2}.Key())
	assert.Equal(t, "", Assignment{}.Key())

	a := Assignment{1, 2}
	b := a.Clone()
	b[0] = 5
	assert.Equal(t, 1, a[0])
}

func TestCapabilities(t *testing.T) {
	counts := StateCounts{1: 3, 2: 2}
	s := MustNew(1, 2)
	assert.Equal(t, 6, Product(counts, s))
	assert.Equal(t, 1, Product(counts, Subset{}))
	assert.NoError(t, Valid(counts, s, Assignment{2, 1}))
	assert.Error(t, Valid(counts, s, Assignment{3, 1}))
	assert.Error(t, Valid(counts, s, Assignment{0}))

	names := NewNames()
	require.NoError(t, names.Add("a", 1))
	require.NoError(t, names.Add("b", 2))
	assert.Error(t, names.Add("a", 3))
	assert.Error(t, names.Add("c", 2))
	v, ok := names.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, Variable(2), v)
	assert.Equal(t, "a", names.NameOf(1))
	assert.Equal(t, "7", names.NameOf(7))
	assert.Equal(t, 2, names.Len())

	sc := ScorerFunc(func(s Subset, a Assignment) float64 { return float64(a[0]) })
	assert.Equal(t, 2.0, sc.Score(s, Assignment{2, 0}))
}
