package filter

import (
	"fmt"
	"math"

	"github.com/crillab/gopherjt/subset"
)

// A Forbidden table lists, for several scopes, the assignments that are not allowed.
// Its filters skip directly over forbidden states instead of trying them one by one.
type Forbidden struct {
	counts subset.StateCounter
	sets   []*tupleSet
}

type tupleSet struct {
	scope  subset.Subset
	tuples map[string]struct{}
}

// NewForbidden returns an empty table. counts is used to validate tuples and estimate strengths.
func NewForbidden(counts subset.StateCounter) *Forbidden {
	return &Forbidden{counts: counts}
}

// Add forbids the given assignments over scope.
// Tuples added for the same scope, in the same order, are merged.
func (f *Forbidden) Add(scope subset.Subset, tuples ...subset.Assignment) error {
	if len(scope) == 0 {
		return fmt.Errorf("cannot forbid assignments over an empty scope")
	}
	for _, t := range tuples {
		if err := subset.Valid(f.counts, scope, t); err != nil {
			return fmt.Errorf("invalid forbidden tuple: %w", err)
		}
	}
	var set *tupleSet
	for _, s := range f.sets {
		if equalOrder(s.scope, scope) {
			set = s
			break
		}
	}
	if set == nil {
		set = &tupleSet{scope: scope, tuples: make(map[string]struct{}, len(tuples))}
		f.sets = append(f.sets, set)
	}
	for _, t := range tuples {
		set.tuples[t.Key()] = struct{}{}
	}
	return nil
}

func equalOrder(s1, s2 subset.Subset) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}
	return true
}

// Filter returns the filter checking all forbidden sets whose scope fits in s.
func (f *Forbidden) Filter(s subset.Subset, excluded []subset.Subset) Filter {
	var checks []tupleCheck
	for _, set := range f.sets {
		if applies(set.scope, s, excluded) {
			checks = append(checks, tupleCheck{set: set, pos: s.Positions(set.scope)})
		}
	}
	if len(checks) == 0 {
		return nil
	}
	return forbiddenFilter(checks)
}

// Strength is the probability that a random assignment violates at least one applicable set.
func (f *Forbidden) Strength(s subset.Subset, excluded []subset.Subset) float64 {
	ok := 1.0
	for _, set := range f.sets {
		if !applies(set.scope, s, excluded) {
			continue
		}
		if total := subset.Product(f.counts, set.scope); total > 0 {
			ok *= 1 - float64(len(set.tuples))/float64(total)
		}
	}
	return 1 - ok
}

type tupleCheck struct {
	set *tupleSet
	pos []int // Position of each scope variable in the filtered subset
}

func (c tupleCheck) rejects(a subset.Assignment) bool {
	_, ok := c.set.tuples[subset.ProjectWith(a, c.pos).Key()]
	return ok
}

func (c tupleCheck) involves(pos int) bool {
	for _, p := range c.pos {
		if p == pos {
			return true
		}
	}
	return false
}

type forbiddenFilter []tupleCheck

func (ff forbiddenFilter) IsOK(a subset.Assignment) bool {
	for _, c := range ff {
		if c.rejects(a) {
			return false
		}
	}
	return true
}

// NextState tries the following values of position pos until no set involving it rejects a.
// If a set that does not involve pos rejects a, no value can help.
func (ff forbiddenFilter) NextState(pos int, a subset.Assignment) int {
	var involved []tupleCheck
	for _, c := range ff {
		if c.involves(pos) {
			involved = append(involved, c)
		} else if c.rejects(a) {
			return math.MaxInt
		}
	}
	b := a.Clone()
	for b[pos] = a[pos] + 1; ; b[pos]++ {
		rejected := false
		for _, c := range involved {
			if c.rejects(b) {
				rejected = true
				break
			}
		}
		if !rejected {
			return b[pos]
		}
	}
}
