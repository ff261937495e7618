package jtree

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/crillab/gopherjt/subset"
)

// A ScoreTable associates a score to assignments over a subset.
// An entry whose score is +Inf is invalid: no full assignment extending it is acceptable.
type ScoreTable struct {
	vars    subset.Subset
	assigns []subset.Assignment
	scores  []float64
	index   map[string]int // Position of each assignment, by key.
}

// NewScoreTable returns an empty table over vars.
func NewScoreTable(vars subset.Subset) *ScoreTable {
	return &ScoreTable{vars: vars, index: make(map[string]int)}
}

// Subset returns the variables the table bears on.
func (t *ScoreTable) Subset() subset.Subset { return t.vars }

// Len returns the number of entries, valid or not.
func (t *ScoreTable) Len() int { return len(t.assigns) }

// Entry returns the assignment and score of the i-th entry.
func (t *ScoreTable) Entry(i int) (subset.Assignment, float64) {
	return t.assigns[i], t.scores[i]
}

// Add adds score to the entry for a, creating it if needed.
// The table takes ownership of a.
func (t *ScoreTable) Add(a subset.Assignment, score float64) {
	if len(a) != len(t.vars) {
		panic(fmt.Errorf("assignment %v does not match table over %v", a, t.vars))
	}
	key := a.Key()
	if i, ok := t.index[key]; ok {
		t.scores[i] = plus(t.scores[i], score)
		return
	}
	t.index[key] = len(t.assigns)
	t.assigns = append(t.assigns, a)
	t.scores = append(t.scores, score)
}

// Score returns the score of a, and false if a has no entry.
func (t *ScoreTable) Score(a subset.Assignment) (float64, bool) {
	return t.scoreOf(a.Key())
}

func (t *ScoreTable) scoreOf(key string) (float64, bool) {
	i, ok := t.index[key]
	if !ok {
		return 0, false
	}
	return t.scores[i], true
}

// Valid returns the number of entries with a finite score.
func (t *ScoreTable) Valid() int {
	n := 0
	for _, s := range t.scores {
		if !math.IsInf(s, 1) {
			n++
		}
	}
	return n
}

// MinMarginal returns the table over sep whose entries hold, for each assignment of sep,
// the lowest score of an entry of t consistent with it.
// sep must be included in the subset of t.
func (t *ScoreTable) MinMarginal(sep subset.Subset) *ScoreTable {
	pos := t.vars.Positions(sep)
	res := NewScoreTable(sep)
	for i, a := range t.assigns {
		proj := subset.ProjectWith(a, pos)
		key := proj.Key()
		if j, ok := res.index[key]; ok {
			if t.scores[i] < res.scores[j] {
				res.scores[j] = t.scores[i]
			}
			continue
		}
		res.index[key] = len(res.assigns)
		res.assigns = append(res.assigns, proj)
		res.scores = append(res.scores, t.scores[i])
	}
	return res
}

// Candidates groups the valid entries of t by their projection on sep.
// Each group is keyed by the projection's Key and lists entry indices by increasing score.
func (t *ScoreTable) Candidates(sep subset.Subset) map[string][]int {
	pos := t.vars.Positions(sep)
	res := make(map[string][]int)
	for i, a := range t.assigns {
		if math.IsInf(t.scores[i], 1) {
			continue
		}
		key := subset.ProjectWith(a, pos).Key()
		res[key] = append(res[key], i)
	}
	for _, idx := range res {
		sort.SliceStable(idx, func(i, j int) bool { return t.scores[idx[i]] < t.scores[idx[j]] })
	}
	return res
}

// Lowest returns the indices of the (at most) k valid entries with the lowest scores,
// by increasing score. Ties are broken by entry index.
func (t *ScoreTable) Lowest(k int) []int {
	valid := make([]int, 0, len(t.scores))
	for i, s := range t.scores {
		if !math.IsInf(s, 1) {
			valid = append(valid, i)
		}
	}
	q := newQueue(t.scores, valid)
	res := make([]int, 0, min(k, q.len()))
	for len(res) < k && !q.empty() {
		res = append(res, q.removeMin())
	}
	return res
}

// Clone returns a deep copy of t.
func (t *ScoreTable) Clone() *ScoreTable {
	res := &ScoreTable{
		vars:    t.vars,
		assigns: make([]subset.Assignment, len(t.assigns)),
		scores:  append([]float64(nil), t.scores...),
		index:   make(map[string]int, len(t.index)),
	}
	for i, a := range t.assigns {
		res.assigns[i] = a.Clone()
	}
	for k, v := range t.index {
		res.index[k] = v
	}
	return res
}

// absorb adds to each entry of t the difference between msg and old on its projection
// on the separator of both tables. pos gives the positions of that separator in t.
// A nil old stands for a table of zeros. Missing entries in msg invalidate the entry.
func (t *ScoreTable) absorb(pos []int, msg, old *ScoreTable) {
	for i, a := range t.assigns {
		key := subset.ProjectWith(a, pos).Key()
		delta, ok := msg.scoreOf(key)
		if !ok {
			delta = math.Inf(1)
		} else if old != nil {
			if prev, ok := old.scoreOf(key); ok && !math.IsInf(prev, 1) {
				delta -= prev
			} else {
				delta = math.Inf(1)
			}
		}
		t.scores[i] = plus(t.scores[i], delta)
	}
}

func (t *ScoreTable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "table over %v:", t.vars)
	for i, a := range t.assigns {
		fmt.Fprintf(&sb, " %v=%g", a, t.scores[i])
	}
	return sb.String()
}

// plus adds two scores, +Inf being absorbing.
func plus(x, y float64) float64 {
	if math.IsInf(x, 1) || math.IsInf(y, 1) {
		return math.Inf(1)
	}
	return x + y
}
