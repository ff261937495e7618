package subset

import "fmt"

// A StateCounter gives the number of states available to each variable.
// Implementations must be safe for concurrent reads.
type StateCounter interface {
	StateCount(v Variable) int
}

// A Namer gives a human-readable name to each variable.
type Namer interface {
	NameOf(v Variable) string
}

// A Scorer computes the score of a subset under a given assignment.
// Lower is better.
type Scorer interface {
	Score(s Subset, a Assignment) float64
}

// ScorerFunc adapts an ordinary function to the Scorer interface.
type ScorerFunc func(s Subset, a Assignment) float64

// Score calls f(s, a).
func (f ScorerFunc) Score(s Subset, a Assignment) float64 { return f(s, a) }

// StateCounts is a StateCounter backed by a map.
// Variables absent from the map have no state.
type StateCounts map[Variable]int

// StateCount returns the number of states of v.
func (sc StateCounts) StateCount(v Variable) int { return sc[v] }

// Product returns the number of assignments over s, i.e the product of all state counts.
func Product(counts StateCounter, s Subset) int {
	res := 1
	for _, v := range s {
		res *= counts.StateCount(v)
	}
	return res
}

// Valid returns an error if a is not a legal assignment over s.
func Valid(counts StateCounter, s Subset, a Assignment) error {
	if len(a) != len(s) {
		return fmt.Errorf("assignment %v has %d states, subset %v has %d variables", a, len(a), s, len(s))
	}
	for i, v := range s {
		if a[i] < 0 || a[i] >= counts.StateCount(v) {
			return fmt.Errorf("state %d of variable %d is out of range [0, %d)", a[i], v, counts.StateCount(v))
		}
	}
	return nil
}

// Names associates names with variables, in both directions.
// The zero value is not usable; call NewNames.
type Names struct {
	byName map[string]Variable
	byVar  map[Variable]string
}

// NewNames returns an empty name table.
func NewNames() *Names {
	return &Names{byName: make(map[string]Variable), byVar: make(map[Variable]string)}
}

// Add registers name for v. It fails if either is already registered.
func (n *Names) Add(name string, v Variable) error {
	if old, ok := n.byName[name]; ok {
		return fmt.Errorf("name %q already used by variable %d", name, old)
	}
	if old, ok := n.byVar[v]; ok {
		return fmt.Errorf("variable %d already named %q", v, old)
	}
	n.byName[name] = v
	n.byVar[v] = name
	return nil
}

// Lookup returns the variable called name, if any.
func (n *Names) Lookup(name string) (Variable, bool) {
	v, ok := n.byName[name]
	return v, ok
}

// NameOf returns the name of v, or its integer representation if it has no name.
func (n *Names) NameOf(v Variable) string {
	if name, ok := n.byVar[v]; ok {
		return name
	}
	return fmt.Sprintf("%d", v)
}

// Len returns the number of named variables.
func (n *Names) Len() int { return len(n.byName) }
