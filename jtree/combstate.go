package jtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crillab/gopherjt/subset"
)

// A CombState is a consistent mapping from variables to states, built while extracting minima.
type CombState struct {
	values map[subset.Variable]int
	vars   subset.Subset // Assigned variables, in assignment order.
	score  float64
}

// NewCombState returns an empty state.
func NewCombState() *CombState {
	return &CombState{values: make(map[subset.Variable]int)}
}

// Set assigns state to v, overwriting any previous value.
func (c *CombState) Set(v subset.Variable, state int) {
	if _, ok := c.values[v]; !ok {
		c.vars = append(c.vars, v)
	}
	c.values[v] = state
}

// Get returns the state of v, and false if v is not assigned.
func (c *CombState) Get(v subset.Variable) (int, bool) {
	state, ok := c.values[v]
	return state, ok
}

// Extend assigns a to the variables of s. If a variable is already assigned another state,
// c is left unchanged and that variable is returned along with false.
func (c *CombState) Extend(s subset.Subset, a subset.Assignment) (subset.Variable, bool) {
	for i, v := range s {
		if state, ok := c.values[v]; ok && state != a[i] {
			return v, false
		}
	}
	for i, v := range s {
		c.Set(v, a[i])
	}
	return 0, true
}

// Merge adds the assignments of other to c. If both disagree on a variable,
// c is left unchanged and that variable is returned along with false.
func (c *CombState) Merge(other *CombState) (subset.Variable, bool) {
	a := make(subset.Assignment, len(other.vars))
	for i, v := range other.vars {
		a[i] = other.values[v]
	}
	return c.Extend(other.vars, a)
}

// Project returns the states of the variables of s, and false if one of them is not assigned.
func (c *CombState) Project(s subset.Subset) (subset.Assignment, bool) {
	res := make(subset.Assignment, len(s))
	for i, v := range s {
		state, ok := c.values[v]
		if !ok {
			return nil, false
		}
		res[i] = state
	}
	return res, true
}

// Score is the total score of the state, as computed during inference.
func (c *CombState) Score() float64 { return c.score }

// Len returns the number of assigned variables.
func (c *CombState) Len() int { return len(c.vars) }

// Variables returns the assigned variables, in assignment order.
func (c *CombState) Variables() subset.Subset { return c.vars }

// Clone returns a deep copy of c.
func (c *CombState) Clone() *CombState {
	res := &CombState{
		values: make(map[subset.Variable]int, len(c.values)),
		vars:   append(subset.Subset(nil), c.vars...),
		score:  c.score,
	}
	for v, state := range c.values {
		res.values[v] = state
	}
	return res
}

// String returns the state as "{v=state ...}", variables sorted, followed by the score.
func (c *CombState) String() string {
	sorted := c.vars.Sorted()
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%d=%d", v, c.values[v])
	}
	return fmt.Sprintf("{%s} %g", strings.Join(parts, " "), c.score)
}

// Format writes the state using names for variables.
func (c *CombState) Format(namer subset.Namer) string {
	sorted := append(subset.Subset(nil), c.vars...)
	sort.Slice(sorted, func(i, j int) bool { return namer.NameOf(sorted[i]) < namer.NameOf(sorted[j]) })
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%s=%d", namer.NameOf(v), c.values[v])
	}
	return strings.Join(parts, " ")
}
