/*
Package enum lists the assignments of a subset that are accepted by a set of filter tables.

Three strategies are provided. They all produce the same set of assignments, only the order
and the amount of work differ:

1. BruteForce walks through every assignment of the subset, like an odometer whose radices are
the state counts of the variables, and keeps those accepted by all filters.

2. DivideConquer splits the subset in two halves, enumerates each half recursively (subsets of
at most two variables are handled by brute force), then joins the two lists, checking only the
constraints that span both halves. Halves can be enumerated concurrently.

3. Ordered first sorts the variables so that the most constraining ones come first, then
explores assignments depth first. As soon as a prefix is rejected, the filter is asked for the
next state that could be accepted, so whole ranges of invalid assignments are skipped.

Assignments are written into a Sink. A sink has a capacity: once it is reached, enumeration
stops and Enumerate returns a *CapacityWarning. The assignments already in the sink remain
valid, there are just not all of them.

	counts := subset.StateCounts{0: 3, 1: 2}
	forbidden := filter.NewForbidden(counts)
	_ = forbidden.Add(subset.MustNew(0, 1), subset.Assignment{1, 1})
	e := enum.NewOrdered(enum.Config{Counts: counts, Tables: []filter.Table{forbidden}})
	sink := enum.NewSink(0)
	if err := e.Enumerate(ctx, subset.MustNew(0, 1), sink); err != nil {
		...
	}
	// sink.Assignments() now holds the 5 allowed assignments.
*/
package enum
