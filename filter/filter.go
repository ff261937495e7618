// Package filter defines the pruning oracles used while enumerating assignments.
//
// A Table knows about a set of constraints, each bearing on a scope (a Subset).
// Given the subset being enumerated, it builds a Filter that checks every constraint
// whose scope is included in that subset. Subsets given as "excluded" are subsets whose
// assignments were already checked: constraints whose scope fits in one of them are skipped,
// so that composing filters never applies the same constraint twice.
//
// Filters are read-only once built and can be shared between goroutines.
package filter

import (
	"github.com/crillab/gopherjt/subset"
)

// A Filter accepts or rejects assignments over the subset it was built for.
type Filter interface {
	// IsOK is true iff a is acceptable.
	IsOK(a subset.Assignment) bool
	// NextState is called on an assignment a that was rejected by IsOK.
	// It returns the smallest state for position pos that could make a acceptable,
	// all other positions being unchanged. No state strictly between a[pos] and the
	// returned value can make a acceptable. The returned value can exceed the number of
	// states of the variable: that means no value can fix the assignment.
	NextState(pos int, a subset.Assignment) int
}

// A Table builds filters for given subsets.
type Table interface {
	// Filter returns the filter applying to s once the excluded subsets are already checked,
	// or nil if no constraint of the table applies.
	Filter(s subset.Subset, excluded []subset.Subset) Filter
	// Strength returns an estimate in [0, 1] of how constraining the table is on s,
	// excluded subsets being already checked. It is a heuristic used for ordering only.
	Strength(s subset.Subset, excluded []subset.Subset) float64
}

// applies is true iff a constraint on scope must be checked when enumerating s.
func applies(scope, s subset.Subset, excluded []subset.Subset) bool {
	if !scope.IsSubsetOf(s) {
		return false
	}
	for _, ex := range excluded {
		if scope.IsSubsetOf(ex) {
			return false
		}
	}
	return true
}

// Join returns the conjunction of all filters built by tables for s, or nil if none applies.
func Join(tables []Table, s subset.Subset, excluded []subset.Subset) Filter {
	var filters []Filter
	for _, t := range tables {
		if f := t.Filter(s, excluded); f != nil {
			filters = append(filters, f)
		}
	}
	switch len(filters) {
	case 0:
		return nil
	case 1:
		return filters[0]
	default:
		return and(filters)
	}
}

// Strength returns the aggregated strength of all tables on s.
func Strength(tables []Table, s subset.Subset, excluded []subset.Subset) float64 {
	res := 0.0
	for _, t := range tables {
		res += t.Strength(s, excluded)
	}
	return res
}

type and []Filter

func (fs and) IsOK(a subset.Assignment) bool {
	for _, f := range fs {
		if !f.IsOK(a) {
			return false
		}
	}
	return true
}

// NextState returns the farthest jump among failing filters.
// Every value below it is rejected by at least the filter that proposed it.
func (fs and) NextState(pos int, a subset.Assignment) int {
	res := a[pos] + 1
	for _, f := range fs {
		if !f.IsOK(a) {
			if next := f.NextState(pos, a); next > res {
				res = next
			}
		}
	}
	return res
}

// Unit returns a table equivalent to t, except its filters never skip states:
// NextState always proposes the state right after the current one.
func Unit(t Table) Table {
	return unitTable{t}
}

type unitTable struct {
	Table
}

func (u unitTable) Filter(s subset.Subset, excluded []subset.Subset) Filter {
	f := u.Table.Filter(s, excluded)
	if f == nil {
		return nil
	}
	return unitFilter{f}
}

type unitFilter struct {
	Filter
}

func (unitFilter) NextState(pos int, a subset.Assignment) int {
	return a[pos] + 1
}
