package enum

import (
	"context"

	"github.com/crillab/gopherjt/filter"
	"github.com/crillab/gopherjt/subset"
)

// Ordered explores assignments depth first, in an order where the most constrained variables come first.
// When a partial assignment is rejected, the filter tells which state to try next,
// so rejected ranges are never visited.
type Ordered struct {
	cfg Config
}

// NewOrdered returns an ordered enumerator.
func NewOrdered(cfg Config) *Ordered {
	return &Ordered{cfg: cfg}
}

// Strategy returns StrategyOrdered.
func (o *Ordered) Strategy() Strategy { return StrategyOrdered }

// Order returns the variables of s sorted greedily: at each step, the chosen variable is the one
// whose addition to the already placed variables brings the strongest new constraints.
// Ties are broken by position in s.
func Order(s subset.Subset, tables []filter.Table) subset.Subset {
	remaining := append(subset.Subset(nil), s...)
	order := make(subset.Subset, 0, len(s))
	for len(remaining) > 0 {
		placed := []subset.Subset{order}
		best, bestStrength := 0, -1.0
		for i, v := range remaining {
			cand := append(order[:len(order):len(order)], v)
			if st := filter.Strength(tables, cand, placed); st > bestStrength {
				best, bestStrength = i, st
			}
		}
		order = append(order, remaining[best])
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return order
}

// Enumerate adds the accepted assignments of s to sink.
// Assignments are expressed over s, whatever the exploration order.
func (o *Ordered) Enumerate(ctx context.Context, s subset.Subset, sink *Sink) error {
	before := sink.Len()
	var err error
	if !sink.refuse() {
		err = o.enumerate(ctx, s, sink)
	}
	return finish(o.Strategy(), o.cfg.logger(), s, sink, before, err)
}

func (o *Ordered) enumerate(ctx context.Context, s subset.Subset, sink *Sink) error {
	// Constraints without variables are excluded by order[:0] at every level below.
	if flt := filter.Join(o.cfg.Tables, subset.Subset{}, nil); flt != nil && !flt.IsOK(subset.Assignment{}) {
		return nil
	}
	order := Order(s, o.cfg.Tables)
	n := len(order)
	if n == 0 {
		sink.Add(subset.Assignment{})
		return nil
	}
	maxs, ok := o.cfg.maxStates(order)
	if !ok {
		return nil
	}
	// filters[i] checks the constraints that involve order[i] and previous variables only.
	filters := make([]filter.Filter, n)
	for i := range order {
		filters[i] = filter.Join(o.cfg.Tables, order[:i+1], []subset.Subset{order[:i]})
	}
	pos := s.Positions(order)
	cur := make(subset.Assignment, n)
	out := make(subset.Assignment, n)
	level := 0
	for iter := 0; ; iter++ {
		if iter&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if cur[level] >= maxs[level] {
			if level == 0 {
				return nil
			}
			cur[level] = 0
			level--
			cur[level]++
			continue
		}
		prefix := cur[:level+1]
		if flt := filters[level]; flt != nil && !flt.IsOK(prefix) {
			next := flt.NextState(level, prefix)
			if next <= cur[level] {
				next = cur[level] + 1
			}
			cur[level] = next
			continue
		}
		if level < n-1 {
			level++
			cur[level] = 0
			continue
		}
		for i, p := range pos {
			out[p] = cur[i]
		}
		if !sink.Add(out.Clone()) {
			return nil
		}
		cur[level]++
	}
}
