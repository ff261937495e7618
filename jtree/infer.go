package jtree

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/crillab/gopherjt/subset"
)

// Infer passes messages through the tree, then extracts its k lowest-scoring full assignments
// (see TopK). The tree must be Populated and valid (see Validate).
// Once messages are passed the tree is Inferred, even if extraction fails:
// TopK can then be called again, possibly with another k.
func (t *Tree) Infer(ctx context.Context, k int) error {
	if t.state != Populated {
		return &StateError{Op: "infer", State: t.state}
	}
	if k < 1 {
		return &RangeError{Msg: fmt.Sprintf("cannot extract %d minima", k)}
	}
	if err := t.Validate(); err != nil {
		return err
	}
	ctx, span := tracer.Start(ctx, "jtree.Infer", trace.WithAttributes(
		attribute.String("tree.id", t.id.String()),
		attribute.Int("tree.nodes", len(t.nodes)),
		attribute.Int("k", k),
		attribute.Bool("parallel", t.opts.Parallel),
	))
	defer span.End()
	start := time.Now()

	t.base = make([]*ScoreTable, len(t.nodes))
	for i, nd := range t.nodes {
		t.base[i] = nd.table.Clone()
	}
	if err := t.passMessages(ctx); err != nil {
		t.restore()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordInfer(ctx, time.Since(start), len(t.nodes), false)
		return err
	}
	t.state = Inferred
	t.logger.Debug("messages passed", "nodes", len(t.nodes), "duration", time.Since(start))

	_, err := t.TopK(ctx, k)
	recordInfer(ctx, time.Since(start), len(t.nodes), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (t *Tree) passMessages(ctx context.Context) error {
	tr := t.traverse()
	cctx, span := tracer.Start(ctx, "jtree.collect")
	err := t.collect(cctx, tr, t.root)
	span.End()
	if err != nil {
		return err
	}
	dctx, span := tracer.Start(ctx, "jtree.distribute")
	defer span.End()
	return t.distribute(dctx, tr, t.root)
}

// collect sends the min-marginals of the subtree rooted at u up to u.
// Subtrees of distinct children share no table nor edge, so they can be processed concurrently;
// updates of u itself happen once all of them are done.
func (t *Tree) collect(ctx context.Context, tr *traversal, u int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	children := tr.children[u]
	if t.opts.Parallel && len(children) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for _, c := range children {
			g.Go(func() error { return t.collect(gctx, tr, c) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, c := range children {
			if err := t.collect(ctx, tr, c); err != nil {
				return err
			}
		}
	}
	for i, c := range children {
		t.update(tr.childEdges[u][i], c, u, true)
	}
	return nil
}

// distribute sends the min-marginal of u down to its children, then recursively to their subtrees.
func (t *Tree) distribute(ctx context.Context, tr *traversal, u int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	children := tr.children[u]
	for i, c := range children {
		t.update(tr.childEdges[u][i], u, c, false)
	}
	if t.opts.Parallel && len(children) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for _, c := range children {
			g.Go(func() error { return t.distribute(gctx, tr, c) })
		}
		return g.Wait()
	}
	for _, c := range children {
		if err := t.distribute(ctx, tr, c); err != nil {
			return err
		}
	}
	return nil
}

// update sends the min-marginal of node from to node to through edge e.
// The part of the message already received by to through e is removed first.
func (t *Tree) update(e, from, to int, upward bool) {
	ed := &t.edges[e]
	msg := t.nodes[from].table.MinMarginal(ed.sep)
	dst := t.nodes[to]
	if upward {
		ed.pre = dst.table.MinMarginal(ed.sep)
		ed.post = msg
	}
	dst.table.absorb(dst.vars.Positions(ed.sep), msg, ed.message)
	ed.message = msg
}

// TopK extracts the k lowest-scoring full assignments of an inferred tree, by increasing score.
// The k best entries of the root table are each extended down the tree: at each child, the
// best entry agreeing with the separator is merged into the state.
// If the root has no valid entry, a *ConsistencyError is returned. If only some seeds cannot
// be extended, the other ones are kept and the returned error joins the failures.
// Results are also available through GetMinimum.
func (t *Tree) TopK(ctx context.Context, k int) ([]*CombState, error) {
	if t.state != Inferred {
		return nil, &StateError{Op: "extract minima", State: t.state}
	}
	if k < 1 {
		return nil, &RangeError{Msg: fmt.Sprintf("cannot extract %d minima", k)}
	}
	_, span := tracer.Start(ctx, "jtree.TopK", trace.WithAttributes(
		attribute.String("tree.id", t.id.String()),
		attribute.Int("k", k),
	))
	defer span.End()

	tr := t.traverse()
	root := t.nodes[t.root]
	seeds := root.table.Lowest(k)
	if len(seeds) == 0 {
		t.minima = nil
		err := &ConsistencyError{Msg: fmt.Sprintf("root node %d has no valid entry", t.root)}
		span.RecordError(err)
		return nil, err
	}
	cands := make([]map[string][]int, len(t.edges))
	var (
		minima []*CombState
		errs   []error
	)
	for rank, idx := range seeds {
		a, score := root.table.Entry(idx)
		cs := NewCombState()
		cs.Extend(root.vars, a)
		cs.score = score
		if err := t.distributeMinimum(tr, cands, cs, t.root); err != nil {
			errs = append(errs, fmt.Errorf("minimum %d: %w", rank, err))
			continue
		}
		minima = append(minima, cs)
	}
	t.minima = minima
	span.SetAttributes(attribute.Int("minima", len(minima)))
	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		t.logger.Warn("some minima could not be extracted", "found", len(minima), "error", err)
	}
	if len(minima) == 0 {
		return nil, err
	}
	return minima, err
}

// distributeMinimum extends cs, which assigns the variables of u, into the subtree rooted at u.
// cands caches the ranked candidates of each edge's child table.
func (t *Tree) distributeMinimum(tr *traversal, cands []map[string][]int, cs *CombState, u int) error {
	for i, c := range tr.children[u] {
		e := tr.childEdges[u][i]
		sep := t.edges[e].sep
		sepA, ok := cs.Project(sep)
		if !ok {
			return &ConsistencyError{Msg: fmt.Sprintf("separator %v of node %d is not assigned", sep, c)}
		}
		if cands[e] == nil {
			cands[e] = t.nodes[c].table.Candidates(sep)
		}
		child := t.nodes[c]
		merged := false
		var conflict subset.Variable
		for _, idx := range cands[e][sepA.Key()] {
			a, _ := child.table.Entry(idx)
			if conflict, merged = cs.Extend(child.vars, a); merged {
				break
			}
		}
		if !merged {
			msg := fmt.Sprintf("no entry of node %d agrees with %v=%v", c, sep, sepA)
			if len(cands[e][sepA.Key()]) > 0 {
				msg += fmt.Sprintf(" (conflict on variable %d)", conflict)
			}
			return &ConsistencyError{Msg: msg}
		}
		if err := t.distributeMinimum(tr, cands, cs, c); err != nil {
			return err
		}
	}
	return nil
}

// NbMinima returns the number of minima extracted by the latest inference.
func (t *Tree) NbMinima() int { return len(t.minima) }

// GetMinimum returns the i-th lowest-scoring full assignment found by the latest inference.
func (t *Tree) GetMinimum(i int) (*CombState, error) {
	if t.state != Inferred {
		return nil, &StateError{Op: "get minimum", State: t.state}
	}
	if i < 0 || i >= len(t.minima) {
		return nil, &RangeError{Msg: fmt.Sprintf("no minimum %d, %d available", i, len(t.minima))}
	}
	return t.minima[i], nil
}

// Reset forgets everything inference did: node tables get back their realized scores and
// messages are dropped. An inferred tree becomes Populated again, never Built: the structure
// stays frozen and AddNode or AddEdge still fail with a *StateError.
func (t *Tree) Reset() {
	t.restore()
	t.minima = nil
	t.trav = nil
	if t.state == Inferred {
		t.state = Populated
	}
}

// restore puts back the tables saved before inference and clears edges.
func (t *Tree) restore() {
	if t.base != nil {
		for i := range t.nodes {
			t.nodes[i].table = t.base[i]
		}
		t.base = nil
	}
	for i := range t.edges {
		t.edges[i].message = nil
		t.edges[i].pre = nil
		t.edges[i].post = nil
	}
}

// Energy recomputes the total realized score of cs, which must assign all variables of the tree.
// It returns +Inf if cs is not allowed.
func (t *Tree) Energy(cs *CombState) (float64, error) {
	if t.state == Built {
		return 0, &StateError{Op: "compute energy", State: t.state}
	}
	tables := t.base
	total := 0.0
	for i, nd := range t.nodes {
		a, ok := cs.Project(nd.vars)
		if !ok {
			return 0, &RangeError{Msg: fmt.Sprintf("state does not assign all variables of node %d", i)}
		}
		table := nd.table
		if tables != nil {
			table = tables[i]
		}
		score, ok := table.Score(a)
		if !ok {
			return math.Inf(1), nil
		}
		total = plus(total, score)
	}
	return total, nil
}

// SeparatorTables returns the tables recorded on edge i by the upward pass, or nils if messages
// were not passed. pre is the min-marginal of the parent over the separator just before it
// received the message of the child, post is that message.
func (t *Tree) SeparatorTables(i int) (pre, post *ScoreTable) {
	return t.edges[i].pre, t.edges[i].post
}
