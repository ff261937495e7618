package jtree

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/crillab/gopherjt/enum"
	"github.com/crillab/gopherjt/subset"
)

// Populate fills the table of each node with the assignments listed by e, all with a score of 0.
// capacity bounds the number of assignments per node (0 means no limit). If a node's enumeration
// was truncated, the tree is still populated and the *enum.CapacityWarning is returned.
func (t *Tree) Populate(ctx context.Context, e enum.Enumerator, capacity int) error {
	if t.state != Built {
		return &StateError{Op: "populate", State: t.state}
	}
	tables := make([]*ScoreTable, len(t.nodes))
	var warnings []error
	for i, nd := range t.nodes {
		sink := enum.NewSink(capacity)
		if err := e.Enumerate(ctx, nd.vars, sink); err != nil {
			if !enum.IsCapacityWarning(err) {
				return fmt.Errorf("could not enumerate node %d: %w", i, err)
			}
			warnings = append(warnings, fmt.Errorf("node %d: %w", i, err))
		}
		tables[i] = NewScoreTable(nd.vars)
		for _, a := range sink.Assignments() {
			tables[i].Add(a, 0)
		}
		t.logger.Debug("populated node", "node", i, "subset", nd.vars.String(), "entries", tables[i].Len())
	}
	for i := range t.nodes {
		t.nodes[i].table = tables[i]
	}
	t.state = Populated
	return errors.Join(warnings...)
}

// A Term is a score contribution: Scorer, restricted to Scope, weighted by Weight.
type Term struct {
	Scope  subset.Subset
	Scorer subset.Scorer
	Weight float64
}

// Realize adds weight times the score of each entry, projected on scope, to the smallest node
// covering scope. Ties go to the node with the lowest index.
// A score of +Inf invalidates the entry.
func (t *Tree) Realize(scope subset.Subset, scorer subset.Scorer, weight float64) error {
	if t.state != Populated {
		return &StateError{Op: "realize", State: t.state}
	}
	best := -1
	for i, nd := range t.nodes {
		if scope.IsSubsetOf(nd.vars) && (best == -1 || len(nd.vars) < len(t.nodes[best].vars)) {
			best = i
		}
	}
	if best == -1 {
		return &RangeError{Msg: fmt.Sprintf("no node covers %v", scope)}
	}
	table := t.nodes[best].table
	pos := table.vars.Positions(scope)
	for i, a := range table.assigns {
		score := scorer.Score(scope, subset.ProjectWith(a, pos))
		if math.IsInf(score, 1) {
			table.scores[i] = score
			continue
		}
		table.scores[i] = plus(table.scores[i], weight*score)
	}
	return nil
}

// RealizeAll realizes each term in turn, stopping at the first error.
func (t *Tree) RealizeAll(terms ...Term) error {
	for _, term := range terms {
		if err := t.Realize(term.Scope, term.Scorer, term.Weight); err != nil {
			return err
		}
	}
	return nil
}
