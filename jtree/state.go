package jtree

// State is the lifecycle state of a tree.
type State byte

const (
	// Built means nodes and edges can still be added.
	Built = State(iota)
	// Populated means node tables hold the allowed assignments and scores can be realized.
	Populated
	// Inferred means messages were passed and minima can be queried.
	Inferred
)

func (s State) String() string {
	switch s {
	case Built:
		return "BUILT"
	case Populated:
		return "POPULATED"
	case Inferred:
		return "INFERRED"
	default:
		panic("invalid state")
	}
}
