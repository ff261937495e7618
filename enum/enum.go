package enum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crillab/gopherjt/filter"
	"github.com/crillab/gopherjt/subset"
)

// How many assignments are considered between two checks of the context.
const ctxCheckMask = 1<<12 - 1

// Strategy identifies an enumeration algorithm.
type Strategy byte

const (
	// StrategyBrute tests every assignment.
	StrategyBrute = Strategy(iota)
	// StrategyDivide splits subsets in halves and joins their assignments.
	StrategyDivide
	// StrategyOrdered explores assignments depth first, skipping rejected ranges.
	StrategyOrdered
)

func (s Strategy) String() string {
	switch s {
	case StrategyBrute:
		return "brute"
	case StrategyDivide:
		return "divide"
	case StrategyOrdered:
		return "ordered"
	default:
		panic("invalid strategy")
	}
}

// ParseStrategy returns the strategy called name.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{StrategyBrute, StrategyDivide, StrategyOrdered} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown enumeration strategy %q", name)
}

// An Enumerator writes all accepted assignments of a subset into a sink.
type Enumerator interface {
	// Enumerate adds to sink all assignments over s accepted by the filters.
	// If the sink gets full, it stops and returns a *CapacityWarning; the sink content is still usable.
	Enumerate(ctx context.Context, s subset.Subset, sink *Sink) error
	// Strategy returns the algorithm used by the enumerator.
	Strategy() Strategy
}

// Config describes what is enumerated.
// Counts and Tables are only read, so a Config can be shared between enumerators.
type Config struct {
	Counts   subset.StateCounter
	Tables   []filter.Table
	Parallel bool         // Whether independent sub-problems may run on separate goroutines.
	Logger   *slog.Logger // If nil, slog.Default() is used.
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// maxStates returns the number of states of each variable of s, and false if one has no state.
func (c Config) maxStates(s subset.Subset) ([]int, bool) {
	maxs := make([]int, len(s))
	for i, v := range s {
		maxs[i] = c.Counts.StateCount(v)
		if maxs[i] <= 0 {
			return nil, false
		}
	}
	return maxs, true
}

// New returns an enumerator using the given strategy.
func New(strategy Strategy, cfg Config) (Enumerator, error) {
	switch strategy {
	case StrategyBrute:
		return NewBruteForce(cfg), nil
	case StrategyDivide:
		return NewDivideConquer(cfg), nil
	case StrategyOrdered:
		return NewOrdered(cfg), nil
	default:
		return nil, fmt.Errorf("invalid strategy %d", strategy)
	}
}

// A CapacityWarning reports that a sink got full before enumeration was over.
type CapacityWarning struct {
	Strategy Strategy
	Subset   subset.Subset
	Capacity int
}

func (w *CapacityWarning) Error() string {
	return fmt.Sprintf("%s enumeration of %v truncated at %d assignments", w.Strategy, w.Subset, w.Capacity)
}

// IsCapacityWarning is true iff err is, or wraps, a *CapacityWarning.
func IsCapacityWarning(err error) bool {
	var w *CapacityWarning
	return errors.As(err, &w)
}

// finish records metrics about an enumeration and turns truncation into a warning.
func finish(strategy Strategy, logger *slog.Logger, s subset.Subset, sink *Sink, before int, err error) error {
	if err != nil {
		return err
	}
	nb := sink.Len() - before
	recordAssignments(strategy, nb)
	logger.Debug("enumerated assignments", "strategy", strategy.String(), "subset", s.String(), "count", nb)
	if sink.Truncated() {
		recordTruncation(strategy)
		logger.Warn("assignment sink is full", "strategy", strategy.String(), "subset", s.String(), "capacity", sink.Capacity())
		return &CapacityWarning{Strategy: strategy, Subset: s, Capacity: sink.Capacity()}
	}
	return nil
}

// odometer calls fn on each assignment whose states are below maxs, the last position varying fastest,
// until fn returns false or all assignments were generated.
// The assignment given to fn is reused between calls.
func odometer(ctx context.Context, maxs []int, fn func(subset.Assignment) bool) error {
	cur := make(subset.Assignment, len(maxs))
	for n := 0; ; n++ {
		if n&ctxCheckMask == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !fn(cur) {
			return nil
		}
		i := len(cur) - 1
		for ; i >= 0; i-- {
			cur[i]++
			if cur[i] < maxs[i] {
				break
			}
			cur[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}
