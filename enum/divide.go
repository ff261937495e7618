package enum

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/crillab/gopherjt/filter"
	"github.com/crillab/gopherjt/subset"
)

// Subsets with at most that many variables are enumerated by brute force.
const divideBase = 2

// DivideConquer enumerates both halves of a subset independently, then joins them.
type DivideConquer struct {
	cfg  Config
	base *BruteForce
}

// NewDivideConquer returns a divide-and-conquer enumerator.
// If cfg.Parallel is set, both halves of each split are enumerated concurrently.
func NewDivideConquer(cfg Config) *DivideConquer {
	return &DivideConquer{cfg: cfg, base: NewBruteForce(cfg)}
}

// Strategy returns StrategyDivide.
func (d *DivideConquer) Strategy() Strategy { return StrategyDivide }

// Enumerate adds the accepted assignments of s to sink.
func (d *DivideConquer) Enumerate(ctx context.Context, s subset.Subset, sink *Sink) error {
	before := sink.Len()
	if sink.refuse() {
		return finish(d.Strategy(), d.cfg.logger(), s, sink, before, nil)
	}
	items, truncated, err := d.enumerate(ctx, s, sink.remaining())
	if err == nil {
		for _, a := range items {
			if !sink.Add(a) {
				break
			}
		}
		if truncated {
			sink.truncated = true
		}
	}
	return finish(d.Strategy(), d.cfg.logger(), s, sink, before, err)
}

// enumerate returns at most capacity accepted assignments of s (all of them if capacity is negative),
// and whether some were dropped.
func (d *DivideConquer) enumerate(ctx context.Context, s subset.Subset, capacity int) ([]subset.Assignment, bool, error) {
	if len(s) <= divideBase {
		sink := NewSink(capacity)
		err := d.base.enumerate(ctx, s, sink)
		return sink.Assignments(), sink.Truncated(), err
	}
	mid := len(s) / 2
	left, right := s[:mid], s[mid:]
	var (
		lefts, rights  []subset.Assignment
		ltrunc, rtrunc bool
	)
	if d.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			lefts, ltrunc, err = d.enumerate(gctx, left, capacity)
			return err
		})
		g.Go(func() error {
			var err error
			rights, rtrunc, err = d.enumerate(gctx, right, capacity)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, false, err
		}
	} else {
		var err error
		if lefts, ltrunc, err = d.enumerate(ctx, left, capacity); err != nil {
			return nil, false, err
		}
		if rights, rtrunc, err = d.enumerate(ctx, right, capacity); err != nil {
			return nil, false, err
		}
	}
	items, truncated, err := d.join(ctx, s, left, right, lefts, rights, capacity)
	return items, truncated || ltrunc || rtrunc, err
}

// join combines the assignments of both halves of s, keeping those accepted by the constraints
// that span both halves. Halves are disjoint, so every pair of assignments is a candidate.
func (d *DivideConquer) join(ctx context.Context, s, left, right subset.Subset, lefts, rights []subset.Assignment, capacity int) ([]subset.Assignment, bool, error) {
	flt := filter.Join(d.cfg.Tables, s, []subset.Subset{left, right})
	lpos := s.Positions(left)
	rpos := s.Positions(right)
	sink := NewSink(capacity)
	merged := make(subset.Assignment, len(s))
	n := 0
	for _, la := range lefts {
		for i, p := range lpos {
			merged[p] = la[i]
		}
		for _, ra := range rights {
			if n&ctxCheckMask == 0 {
				if err := ctx.Err(); err != nil {
					return nil, false, err
				}
			}
			n++
			for i, p := range rpos {
				merged[p] = ra[i]
			}
			if flt != nil && !flt.IsOK(merged) {
				continue
			}
			if !sink.Add(merged.Clone()) {
				return sink.Assignments(), true, nil
			}
		}
	}
	return sink.Assignments(), false, nil
}
