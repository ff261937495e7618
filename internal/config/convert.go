package config

import (
	"fmt"
	"log/slog"

	"github.com/crillab/gopherjt/enum"
	"github.com/crillab/gopherjt/filter"
	"github.com/crillab/gopherjt/jtree"
	"github.com/crillab/gopherjt/subset"
)

// Names returns the name table of the problem. Variables are numbered in declaration order.
func (pb *Problem) Names() *subset.Names {
	names := subset.NewNames()
	for i, v := range pb.Variables {
		if err := names.Add(v.Name, subset.Variable(i)); err != nil {
			panic(err) // Validate rejects duplicate names
		}
	}
	return names
}

// Counts returns the number of states of each variable.
func (pb *Problem) Counts() subset.StateCounts {
	counts := make(subset.StateCounts, len(pb.Variables))
	for i, v := range pb.Variables {
		counts[subset.Variable(i)] = v.States
	}
	return counts
}

// Scope returns the subset made of the named variables.
func (pb *Problem) Scope(names []string) (subset.Subset, error) {
	table := pb.Names()
	vars := make([]subset.Variable, len(names))
	for i, name := range names {
		v, ok := table.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown variable %q", name)
		}
		vars[i] = v
	}
	return subset.New(vars...)
}

// Tables returns the filter tables enforcing forbidden tuples and score maxima.
func (pb *Problem) Tables() ([]filter.Table, error) {
	forbidden := filter.NewForbidden(pb.Counts())
	for _, c := range pb.Forbidden {
		scope, err := pb.Scope(c.Scope)
		if err != nil {
			return nil, err
		}
		tuples := make([]subset.Assignment, len(c.Tuples))
		for i, tuple := range c.Tuples {
			tuples[i] = subset.Assignment(tuple)
		}
		if err := forbidden.Add(scope, tuples...); err != nil {
			return nil, err
		}
	}
	tables := []filter.Table{forbidden}
	threshold := filter.NewThreshold()
	bounded := false
	for _, tbl := range pb.Scores {
		if tbl.Max == nil {
			continue
		}
		scope, err := pb.Scope(tbl.Scope)
		if err != nil {
			return nil, err
		}
		threshold.Add(scope, newScorer(tbl), *tbl.Max)
		bounded = true
	}
	if bounded {
		tables = append(tables, threshold)
	}
	return tables, nil
}

// Terms returns the score contributions of the problem, to be realized on a junction tree.
func (pb *Problem) Terms() ([]jtree.Term, error) {
	terms := make([]jtree.Term, len(pb.Scores))
	for i, tbl := range pb.Scores {
		scope, err := pb.Scope(tbl.Scope)
		if err != nil {
			return nil, err
		}
		weight := 1.0
		if tbl.Weight != nil {
			weight = *tbl.Weight
		}
		terms[i] = jtree.Term{Scope: scope, Scorer: newScorer(tbl), Weight: weight}
	}
	return terms, nil
}

// EnumConfig returns the enumeration setup of the problem.
func (pb *Problem) EnumConfig(logger *slog.Logger) (enum.Config, error) {
	tables, err := pb.Tables()
	if err != nil {
		return enum.Config{}, err
	}
	return enum.Config{
		Counts:   pb.Counts(),
		Tables:   tables,
		Parallel: pb.Settings.Parallel,
		Logger:   logger,
	}, nil
}

// Enumerator returns the enumerator chosen by the settings.
func (pb *Problem) Enumerator(logger *slog.Logger) (enum.Enumerator, error) {
	strategy, err := enum.ParseStrategy(pb.Settings.Strategy)
	if err != nil {
		return nil, err
	}
	cfg, err := pb.EnumConfig(logger)
	if err != nil {
		return nil, err
	}
	return enum.New(strategy, cfg)
}

// tableScorer scores assignments with the entries of a score table.
type tableScorer struct {
	scores map[string]float64
	def    float64
}

func newScorer(tbl ScoreTable) tableScorer {
	sc := tableScorer{scores: make(map[string]float64, len(tbl.Entries)), def: tbl.Default}
	for _, e := range tbl.Entries {
		sc.scores[subset.Assignment(e.States).Key()] = e.Score
	}
	return sc
}

func (sc tableScorer) Score(_ subset.Subset, a subset.Assignment) float64 {
	if score, ok := sc.scores[a.Key()]; ok {
		return score
	}
	return sc.def
}
