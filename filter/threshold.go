package filter

import (
	"math"

	"github.com/crillab/gopherjt/subset"
)

// A Threshold table rejects assignments whose score, on some scope, is above a maximum.
type Threshold struct {
	bounds []bound
}

type bound struct {
	scope  subset.Subset
	scorer subset.Scorer
	max    float64
}

// NewThreshold returns an empty table.
func NewThreshold() *Threshold {
	return &Threshold{}
}

// Add states that scorer must give a score of at most max to any assignment over scope.
func (t *Threshold) Add(scope subset.Subset, scorer subset.Scorer, max float64) {
	t.bounds = append(t.bounds, bound{scope: scope, scorer: scorer, max: max})
}

// Filter returns the filter checking all bounds whose scope fits in s.
func (t *Threshold) Filter(s subset.Subset, excluded []subset.Subset) Filter {
	var checks []boundCheck
	for _, b := range t.bounds {
		if applies(b.scope, s, excluded) {
			checks = append(checks, boundCheck{bound: b, pos: s.Positions(b.scope)})
		}
	}
	if len(checks) == 0 {
		return nil
	}
	return thresholdFilter(checks)
}

// Strength has no information about the score distribution, so each bound counts for one half.
func (t *Threshold) Strength(s subset.Subset, excluded []subset.Subset) float64 {
	n := 0
	for _, b := range t.bounds {
		if applies(b.scope, s, excluded) {
			n++
		}
	}
	return 1 - math.Pow(0.5, float64(n))
}

type boundCheck struct {
	bound
	pos []int
}

type thresholdFilter []boundCheck

func (tf thresholdFilter) IsOK(a subset.Assignment) bool {
	for _, c := range tf {
		if c.scorer.Score(c.scope, subset.ProjectWith(a, c.pos)) > c.max {
			return false
		}
	}
	return true
}

func (tf thresholdFilter) NextState(pos int, a subset.Assignment) int {
	return a[pos] + 1
}
