package jtree

import (
	"errors"
	"fmt"
)

// A FormatError is returned when a tree description is malformed, or when the tree
// is not a valid junction tree.
type FormatError struct {
	Line int // Line of the description where the error was found, or 0.
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return "invalid junction tree: " + e.Msg
}

// A RangeError is returned when a node, an edge, a variable name or a minimum does not exist.
type RangeError struct {
	Line int // Line of the description where the error was found, or 0.
	Msg  string
}

func (e *RangeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return "out of range: " + e.Msg
}

// A StateError is returned when an operation is called at the wrong moment of the tree's life.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: tree is %s", e.Op, e.State)
}

// A ConsistencyError is returned when no assignment can be extracted from an inferred tree.
// The tree is left untouched, so the request can be retried.
type ConsistencyError struct {
	Msg string
}

func (e *ConsistencyError) Error() string {
	return "inconsistent tree: " + e.Msg
}

// IsFormatError is true iff err is, or wraps, a *FormatError.
func IsFormatError(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}

// IsRangeError is true iff err is, or wraps, a *RangeError.
func IsRangeError(err error) bool {
	var e *RangeError
	return errors.As(err, &e)
}

// IsStateError is true iff err is, or wraps, a *StateError.
func IsStateError(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}

// IsConsistencyError is true iff err is, or wraps, a *ConsistencyError.
func IsConsistencyError(err error) bool {
	var e *ConsistencyError
	return errors.As(err, &e)
}
