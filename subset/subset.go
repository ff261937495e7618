// Package subset describes the basic value types shared by the enumerators and the junction tree:
// variables, ordered subsets of variables and assignments of states to those subsets.
package subset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// A Variable is an opaque identifier for a decision point.
// The states a variable can take are only known through a StateCounter.
type Variable int

// A Subset is an ordered list of distinct variables.
// Order only matters for positional indexing into Assignments;
// set operations (intersection, inclusion, equality) ignore it.
type Subset []Variable

// An Assignment associates, positionally, a state index with each variable of a Subset.
type Assignment []int

// A DuplicateError is returned when a subset would contain the same variable twice.
type DuplicateError struct {
	Var Variable
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("variable %d appears more than once in subset", e.Var)
}

// New returns a subset containing the given variables, in that order.
// It fails if a variable appears twice.
func New(vars ...Variable) (Subset, error) {
	seen := make(map[Variable]struct{}, len(vars))
	res := make(Subset, len(vars))
	for i, v := range vars {
		if _, ok := seen[v]; ok {
			return nil, &DuplicateError{Var: v}
		}
		seen[v] = struct{}{}
		res[i] = v
	}
	return res, nil
}

// MustNew is like New but panics on duplicates.
func MustNew(vars ...Variable) Subset {
	s, err := New(vars...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of variables in s.
func (s Subset) Len() int { return len(s) }

// IndexOf returns the position of v in s, or -1 if v is not part of s.
func (s Subset) IndexOf(v Variable) int {
	for i, v2 := range s {
		if v2 == v {
			return i
		}
	}
	return -1
}

// Contains is true iff v is part of s.
func (s Subset) Contains(v Variable) bool {
	return s.IndexOf(v) != -1
}

// Intersect returns the variables of s that are also in o, in s's order.
func (s Subset) Intersect(o Subset) Subset {
	res := make(Subset, 0, len(s))
	for _, v := range s {
		if o.Contains(v) {
			res = append(res, v)
		}
	}
	return res
}

// Union returns s followed by the variables of o that are not in s.
func (s Subset) Union(o Subset) Subset {
	res := make(Subset, len(s), len(s)+len(o))
	copy(res, s)
	for _, v := range o {
		if !s.Contains(v) {
			res = append(res, v)
		}
	}
	return res
}

// Minus returns the variables of s that are not in o, in s's order.
func (s Subset) Minus(o Subset) Subset {
	res := make(Subset, 0, len(s))
	for _, v := range s {
		if !o.Contains(v) {
			res = append(res, v)
		}
	}
	return res
}

// IsSubsetOf is true iff every variable of s is also in o.
func (s Subset) IsSubsetOf(o Subset) bool {
	if len(s) > len(o) {
		return false
	}
	for _, v := range s {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

// Equal is true iff s and o contain the same variables, in any order.
func (s Subset) Equal(o Subset) bool {
	return len(s) == len(o) && s.IsSubsetOf(o)
}

// Sorted returns a copy of s sorted by increasing variable identifier.
func (s Subset) Sorted() Subset {
	res := make(Subset, len(s))
	copy(res, s)
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Positions returns, for each variable of sub, its index in s.
// It panics if sub is not included in s.
func (s Subset) Positions(sub Subset) []int {
	pos := make([]int, len(sub))
	for i, v := range sub {
		idx := s.IndexOf(v)
		if idx == -1 {
			panic(fmt.Sprintf("variable %d of %v is not part of %v", v, sub, s))
		}
		pos[i] = idx
	}
	return pos
}

// Project extracts from a, an assignment over s, the states of the variables of sub, in sub's order.
// It panics if sub is not included in s.
func (s Subset) Project(a Assignment, sub Subset) Assignment {
	return ProjectWith(a, s.Positions(sub))
}

// ProjectWith extracts the states at the given positions of a.
// positions is typically computed once with Subset.Positions.
func ProjectWith(a Assignment, positions []int) Assignment {
	res := make(Assignment, len(positions))
	for i, p := range positions {
		res[i] = a[p]
	}
	return res
}

func (s Subset) String() string {
	strs := make([]string, len(s))
	for i, v := range s {
		strs[i] = strconv.Itoa(int(v))
	}
	return "[" + strings.Join(strs, " ") + "]"
}

// Key returns a canonical representation of a, suitable as a map key.
func (a Assignment) Key() string {
	var sb strings.Builder
	for i, val := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(val))
	}
	return sb.String()
}

// Clone returns a copy of a.
func (a Assignment) Clone() Assignment {
	res := make(Assignment, len(a))
	copy(res, a)
	return res
}

func (a Assignment) String() string {
	return "(" + a.Key() + ")"
}
