package enum

import (
	"context"

	"github.com/crillab/gopherjt/filter"
	"github.com/crillab/gopherjt/subset"
)

// BruteForce tests every assignment of a subset against all filters.
type BruteForce struct {
	cfg Config
}

// NewBruteForce returns a brute force enumerator.
func NewBruteForce(cfg Config) *BruteForce {
	return &BruteForce{cfg: cfg}
}

// Strategy returns StrategyBrute.
func (b *BruteForce) Strategy() Strategy { return StrategyBrute }

// Enumerate adds the accepted assignments of s to sink, in lexicographic order.
func (b *BruteForce) Enumerate(ctx context.Context, s subset.Subset, sink *Sink) error {
	before := sink.Len()
	var err error
	if !sink.refuse() {
		err = b.enumerate(ctx, s, sink)
	}
	return finish(b.Strategy(), b.cfg.logger(), s, sink, before, err)
}

func (b *BruteForce) enumerate(ctx context.Context, s subset.Subset, sink *Sink) error {
	maxs, ok := b.cfg.maxStates(s)
	if !ok {
		return nil
	}
	flt := filter.Join(b.cfg.Tables, s, nil)
	return odometer(ctx, maxs, func(a subset.Assignment) bool {
		if flt != nil && !flt.IsOK(a) {
			return true
		}
		return sink.Add(a.Clone())
	})
}
