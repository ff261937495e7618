// Package config reads problem descriptions: variables, constraints, score tables
// and solver settings, stored as YAML.
//
//	variables:
//	  - {name: A, states: 3}
//	  - {name: B, states: 2}
//	forbidden:
//	  - scope: [A, B]
//	    tuples: [[1, 1]]
//	scores:
//	  - scope: [A, B]
//	    default: 1
//	    entries:
//	      - {states: [0, 0], score: 0}
//	settings:
//	  strategy: ordered
//	  k: 3
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/crillab/gopherjt/enum"
)

// Problem is a whole problem description.
type Problem struct {
	Variables []Variable   `yaml:"variables"`
	Forbidden []Constraint `yaml:"forbidden"`
	Scores    []ScoreTable `yaml:"scores"`
	Settings  Settings     `yaml:"settings"`
}

// Variable is a named variable with States possible states, numbered from 0.
type Variable struct {
	Name   string `yaml:"name"`
	States int    `yaml:"states"`
}

// Constraint forbids the listed tuples of states over Scope.
type Constraint struct {
	Scope  []string `yaml:"scope"`
	Tuples [][]int  `yaml:"tuples"`
}

// ScoreTable gives a score to the assignments of Scope.
// Listed entries get their own score, other assignments get Default.
// If Max is set, assignments scoring above it are not allowed at all.
type ScoreTable struct {
	Scope   []string `yaml:"scope"`
	Weight  *float64 `yaml:"weight,omitempty"` // 1 if not set
	Default float64  `yaml:"default"`
	Entries []Entry  `yaml:"entries"`
	Max     *float64 `yaml:"max,omitempty"`
}

// Entry is the score of one assignment of a score table's scope.
type Entry struct {
	States []int   `yaml:"states"`
	Score  float64 `yaml:"score"`
}

// Settings tune the solver.
type Settings struct {
	Strategy string `yaml:"strategy"` // Enumeration strategy: brute, divide or ordered.
	Capacity int    `yaml:"capacity"` // Maximum number of assignments per node; 0 means no limit.
	K        int    `yaml:"k"`        // Number of minima to extract.
	Parallel bool   `yaml:"parallel"`
	Root     int    `yaml:"root"`
}

// Default returns the settings used when a description does not specify them.
func Default() Settings {
	return Settings{
		Strategy: enum.StrategyOrdered.String(),
		Capacity: 1000000,
		K:        1,
	}
}

// Load reads and validates the problem stored in the file at path.
func Load(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	defer f.Close()
	pb, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load problem %s: %w", path, err)
	}
	return pb, nil
}

// Parse reads and validates a problem. Unknown fields are errors.
func Parse(r io.Reader) (*Problem, error) {
	pb := Problem{Settings: Default()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pb); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse problem: %w", err)
	}
	if err := pb.Validate(); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}
	return &pb, nil
}

// Validate checks that the problem is consistent.
func (pb *Problem) Validate() error {
	if len(pb.Variables) == 0 {
		return errors.New("no variable")
	}
	states := make(map[string]int, len(pb.Variables))
	for i, v := range pb.Variables {
		if v.Name == "" {
			return fmt.Errorf("variable #%d has no name", i)
		}
		if _, ok := states[v.Name]; ok {
			return fmt.Errorf("variable %q declared twice", v.Name)
		}
		if v.States < 1 {
			return fmt.Errorf("variable %q: states must be >= 1", v.Name)
		}
		states[v.Name] = v.States
	}
	for i, c := range pb.Forbidden {
		if err := checkScope(c.Scope, states); err != nil {
			return fmt.Errorf("forbidden #%d: %w", i, err)
		}
		for _, tuple := range c.Tuples {
			if err := checkTuple(c.Scope, tuple, states); err != nil {
				return fmt.Errorf("forbidden #%d: %w", i, err)
			}
		}
	}
	for i, tbl := range pb.Scores {
		if err := checkScope(tbl.Scope, states); err != nil {
			return fmt.Errorf("scores #%d: %w", i, err)
		}
		for _, e := range tbl.Entries {
			if err := checkTuple(tbl.Scope, e.States, states); err != nil {
				return fmt.Errorf("scores #%d: %w", i, err)
			}
		}
	}
	return pb.Settings.Validate()
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if _, err := enum.ParseStrategy(s.Strategy); err != nil {
		return err
	}
	if s.Capacity < 0 {
		return errors.New("capacity must be >= 0")
	}
	if s.K < 1 {
		return errors.New("k must be >= 1")
	}
	if s.Root < 0 {
		return errors.New("root must be >= 0")
	}
	return nil
}

func checkScope(scope []string, states map[string]int) error {
	if len(scope) == 0 {
		return errors.New("empty scope")
	}
	seen := make(map[string]bool, len(scope))
	for _, name := range scope {
		if _, ok := states[name]; !ok {
			return fmt.Errorf("unknown variable %q", name)
		}
		if seen[name] {
			return fmt.Errorf("variable %q appears twice in scope", name)
		}
		seen[name] = true
	}
	return nil
}

func checkTuple(scope []string, tuple []int, states map[string]int) error {
	if len(tuple) != len(scope) {
		return fmt.Errorf("tuple %v does not match scope %v", tuple, scope)
	}
	for i, name := range scope {
		if tuple[i] < 0 || tuple[i] >= states[name] {
			return fmt.Errorf("state %d of %q is out of range", tuple[i], name)
		}
	}
	return nil
}
